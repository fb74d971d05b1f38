package obs

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/go-kit/log/level"
	"github.com/stretchr/testify/assert"
)

func TestTimeLogsOperation(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(NewLogger(&buf, "logfmt", "debug"))
	t.Cleanup(func() { SetLogger(NewLogger(&bytes.Buffer{}, "logfmt", "error")) })

	ctx := WithRequestID(context.Background(), "abc123")

	func() (err error) {
		defer Time(ctx, "unit.ok")(&err)
		return nil
	}()
	func() (err error) {
		defer Time(ctx, "unit.fail")(&err)
		return errors.New("boom")
	}()

	out := buf.String()
	assert.Contains(t, out, "req_id=abc123")
	assert.Contains(t, out, "op=unit.ok")
	assert.Contains(t, out, "op=unit.fail")
	assert.Contains(t, out, "err=boom")
	assert.Contains(t, out, "level=error")
}

func TestNewLoggerFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, "json", "warn")

	_ = level.Info(l).Log("msg", "hidden")
	assert.Empty(t, buf.String())
}

func TestNewLoggerAutoUsesJSONForBuffers(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, "auto", "info")

	_ = l.Log("msg", "hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)
}
