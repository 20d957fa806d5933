/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/nakachan-ing/dolist/internal/model"
	"github.com/nakachan-ing/dolist/internal/store"
	"github.com/spf13/cobra"
)

const saveAndExit = "Save & Exit"

type configModel struct {
	cursor    int
	fields    []string
	config    model.Config
	textInput textinput.Model
	editMode  bool
	save      func(model.Config) error
}

func newConfigModel(config model.Config) *configModel {
	return &configModel{
		fields:    generateFieldList(),
		config:    config,
		textInput: textinput.New(),
		save:      store.SaveConfig,
	}
}

func generateFieldList() []string {
	return []string{
		"DataDir", "ExportDir", "Editor", "DefaultFilter",
		"Notifications.Enable", "Notifications.Backend",
		"Notifications.ReminderMinutes", "Notifications.CheckIntervalSeconds",
		"Storage.CapacityBytes",
		"Sync.Enable", "Sync.Bucket", "Sync.Prefix", "Sync.AWSProfile", "Sync.AWSRegion",
		saveAndExit,
	}
}

func (m *configModel) Init() tea.Cmd {
	return nil
}

func (m *configModel) forceRedraw() tea.Msg {
	return tea.WindowSizeMsg{}
}

func (m *configModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.editMode {
		switch keyMsg.String() {
		case "enter":
			m.updateConfig()
			m.editMode = false
			m.textInput.Blur()
			return m, tea.Batch(tea.ClearScreen, m.forceRedraw)
		case "esc":
			m.editMode = false
			m.textInput.Blur()
		default:
			m.textInput, _ = m.textInput.Update(keyMsg)
		}
		return m, nil
	}

	switch keyMsg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.fields)-1 {
			m.cursor++
		}
	case "enter":
		if m.fields[m.cursor] == saveAndExit {
			if err := m.save(m.config); err != nil {
				log.Printf("⚠️ Failed to save config file: %v", err)
			}
			return m, tea.Quit
		}
		m.editMode = true
		m.textInput.SetValue(m.getFieldValue(m.fields[m.cursor]))
		m.textInput.Focus()
	}
	return m, nil
}

func (m *configModel) View() string {
	var s strings.Builder
	s.WriteString("\033[H\033[2J")
	s.WriteString("📄 Configure dolist\n\n")

	for i, field := range m.fields {
		cursor := "  "
		if m.cursor == i {
			cursor = "👉"
		}
		if field == saveAndExit {
			s.WriteString(fmt.Sprintf("%s %s\n", cursor, field))
			continue
		}
		s.WriteString(fmt.Sprintf("%s %s: %s\n", cursor, field, m.getFieldValue(field)))
	}

	if m.editMode {
		s.WriteString("\n✏️  Editing: " + m.fields[m.cursor] + "\n")
		s.WriteString(m.textInput.View() + "\n")
		s.WriteString("(Enter to apply, ESC to cancel)\n")
	} else {
		s.WriteString("\n⬆️⬇️ to move, Enter to edit, Q to quit without saving\n")
	}

	return s.String()
}

func (m *configModel) getFieldValue(field string) string {
	switch field {
	case "DataDir":
		return m.config.DataDir
	case "ExportDir":
		return m.config.ExportDir
	case "Editor":
		return m.config.Editor
	case "DefaultFilter":
		return m.config.DefaultFilter
	case "Notifications.Enable":
		return strconv.FormatBool(m.config.Notifications.Enable)
	case "Notifications.Backend":
		return m.config.Notifications.Backend
	case "Notifications.ReminderMinutes":
		return joinInts(m.config.Notifications.ReminderMinutes)
	case "Notifications.CheckIntervalSeconds":
		return strconv.Itoa(m.config.Notifications.CheckIntervalSeconds)
	case "Storage.CapacityBytes":
		return strconv.FormatInt(m.config.Storage.CapacityBytes, 10)
	case "Sync.Enable":
		return strconv.FormatBool(m.config.Sync.Enable)
	case "Sync.Bucket":
		return m.config.Sync.Bucket
	case "Sync.Prefix":
		return m.config.Sync.Prefix
	case "Sync.AWSProfile":
		return m.config.Sync.AWSProfile
	case "Sync.AWSRegion":
		return m.config.Sync.AWSRegion
	default:
		return "UNKNOWN"
	}
}

// updateConfig applies the text input to the selected field. Values that do
// not parse leave the field unchanged.
func (m *configModel) updateConfig() {
	newValue := strings.TrimSpace(m.textInput.Value())

	switch m.fields[m.cursor] {
	case "DataDir":
		m.config.DataDir = newValue
	case "ExportDir":
		m.config.ExportDir = newValue
	case "Editor":
		m.config.Editor = newValue
	case "DefaultFilter":
		if f, err := model.ParseFilter(newValue); err == nil {
			m.config.DefaultFilter = string(f)
		}
	case "Notifications.Enable":
		if b, err := strconv.ParseBool(newValue); err == nil {
			m.config.Notifications.Enable = b
		}
	case "Notifications.Backend":
		switch newValue {
		case "desktop", "terminal", "both":
			m.config.Notifications.Backend = newValue
		}
	case "Notifications.ReminderMinutes":
		if minutes, err := parseInts(newValue); err == nil && len(minutes) > 0 {
			m.config.Notifications.ReminderMinutes = minutes
		}
	case "Notifications.CheckIntervalSeconds":
		if n, err := strconv.Atoi(newValue); err == nil && n > 0 {
			m.config.Notifications.CheckIntervalSeconds = n
		}
	case "Storage.CapacityBytes":
		if n, err := strconv.ParseInt(newValue, 10, 64); err == nil && n > 0 {
			m.config.Storage.CapacityBytes = n
		}
	case "Sync.Enable":
		if b, err := strconv.ParseBool(newValue); err == nil {
			m.config.Sync.Enable = b
		}
	case "Sync.Bucket":
		m.config.Sync.Bucket = newValue
	case "Sync.Prefix":
		m.config.Sync.Prefix = newValue
	case "Sync.AWSProfile":
		m.config.Sync.AWSProfile = newValue
	case "Sync.AWSRegion":
		m.config.Sync.AWSRegion = newValue
	}
}

func joinInts(values []int) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, strconv.Itoa(v))
	}
	return strings.Join(parts, ",")
}

func parseInts(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid number of minutes %q", part)
		}
		out = append(out, n)
	}
	return out, nil
}

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configure config.yaml interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := store.GetConfigPath()
		if err != nil {
			return fmt.Errorf("❌ Failed to get config path: %w", err)
		}
		fmt.Println(configPath)

		if _, err := tea.NewProgram(newConfigModel(*config)).Run(); err != nil {
			return fmt.Errorf("❌ Error running TUI: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
