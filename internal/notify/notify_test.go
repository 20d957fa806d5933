package notify

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/nakachan-ing/dolist/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestTerminal_WritesTitleAndBody(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf)

	err := term.Notify(context.Background(), model.Notification{
		Title: "Task due", Body: `"Buy milk" is due`, Kind: model.KindDeadline,
	})

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Task due")
	assert.Contains(t, buf.String(), `"Buy milk" is due`)
}

func TestMulti_FailsOnlyWhenAllFail(t *testing.T) {
	ok := &Recorder{}
	n := model.Notification{Title: "t", Kind: model.KindInfo}

	assert.NoError(t, Multi{Disabled{}, ok}.Notify(context.Background(), n))
	assert.Len(t, ok.Sent(), 1)

	err := Multi{Disabled{}, &Recorder{Err: errors.New("boom")}}.Notify(context.Background(), n)
	assert.ErrorIs(t, err, ErrUnavailable)

	assert.ErrorIs(t, Multi{}.Notify(context.Background(), n), ErrUnavailable)
}

func TestDesktop_UnavailableWithoutCommand(t *testing.T) {
	d := &Desktop{}
	assert.False(t, d.Available())
	assert.ErrorIs(t, d.Notify(context.Background(), model.Notification{}), ErrUnavailable)
}

func TestFromConfig(t *testing.T) {
	var buf bytes.Buffer

	assert.IsType(t, Disabled{}, FromConfig(model.Notifications{Enable: false, Backend: "terminal"}, &buf))
	assert.IsType(t, &Terminal{}, FromConfig(model.Notifications{Enable: true, Backend: "terminal"}, &buf))
	assert.IsType(t, Multi{}, FromConfig(model.Notifications{Enable: true, Backend: "both"}, &buf))
	assert.IsType(t, &Desktop{}, FromConfig(model.Notifications{Enable: true}, &buf))
}
