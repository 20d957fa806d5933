package model

type Config struct {
	DataDir       string        `yaml:"data_dir"`
	ExportDir     string        `yaml:"export_dir"`
	Editor        string        `yaml:"editor"`
	DefaultFilter string        `yaml:"default_filter"`
	Notifications Notifications `yaml:"notifications"`
	Storage       Storage       `yaml:"storage"`
	Sync          Sync          `yaml:"sync"`
}

type Notifications struct {
	Enable               bool   `yaml:"enable"`
	Backend              string `yaml:"backend"` // desktop, terminal, both
	ReminderMinutes      []int  `yaml:"reminder_minutes"`
	CheckIntervalSeconds int    `yaml:"check_interval_seconds"`
}

type Storage struct {
	CapacityBytes int64 `yaml:"capacity_bytes"`
}

type Sync struct {
	Enable     bool   `yaml:"enable"`
	Bucket     string `yaml:"bucket"`
	Prefix     string `yaml:"prefix"`
	AWSProfile string `yaml:"aws_profile"`
	AWSRegion  string `yaml:"aws_region"`
}

var DefaultReminderMinutes = []int{15, 60, 1440}

const DefaultCapacityBytes int64 = 5 * 1024 * 1024

func DefaultConfig() Config {
	return Config{
		DataDir:       "~/.config/dolist/data",
		ExportDir:     ".",
		Editor:        "vim",
		DefaultFilter: string(FilterActive),
		Notifications: Notifications{
			Enable:               true,
			Backend:              "desktop",
			ReminderMinutes:      append([]int(nil), DefaultReminderMinutes...),
			CheckIntervalSeconds: 60,
		},
		Storage: Storage{
			CapacityBytes: DefaultCapacityBytes,
		},
		Sync: Sync{
			Prefix: "dolist",
		},
	}
}
