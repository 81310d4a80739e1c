package documents

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/contre95/structwatch/src/features/monitor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type settings struct {
	Data   string `yaml:"data"`
	Number int    `yaml:"number"`
}

// captureRegistrar keeps the callback instead of watching the file.
type captureRegistrar struct {
	path     string
	callback monitor.Callback
	err      error
}

func (c *captureRegistrar) Register(path string, callback monitor.Callback) (*monitor.Handle, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.path = path
	c.callback = callback
	return nil, nil
}

func TestLoad_CreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "data.yaml")
	doc := New(path, settings{Data: "default", Number: 7})

	require.NoError(t, doc.Load())
	assert.Equal(t, settings{Data: "default", Number: 7}, doc.Get())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "data: default")
	assert.Contains(t, string(raw), "number: 7")
}

func TestLoad_ReadsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data: from disk\nnumber: 3\n"), 0o644))

	doc := New(path, settings{Data: "default"})
	require.NoError(t, doc.Load())
	assert.Equal(t, settings{Data: "from disk", Number: 3}, doc.Get())
}

func TestReload_ReplacesValueAndRunsHooks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.yaml")
	doc := New(path, settings{Data: "a", Number: 1})
	require.NoError(t, doc.Load())

	var seen []settings
	doc.OnUpdate(func(s settings) { seen = append(seen, s) })

	// Fields missing from the file are reset, not merged.
	require.NoError(t, os.WriteFile(path, []byte("data: b\n"), 0o644))
	require.NoError(t, doc.Reload())

	assert.Equal(t, settings{Data: "b"}, doc.Get())
	assert.Equal(t, []settings{{Data: "b"}}, seen)
}

func TestReload_KeepsValueOnDecodeError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.yaml")
	doc := New(path, settings{Data: "a"})
	require.NoError(t, doc.Load())

	hookCalls := 0
	doc.OnUpdate(func(settings) { hookCalls++ })

	require.NoError(t, os.WriteFile(path, []byte("number: [not, an, int]\n"), 0o644))
	assert.Error(t, doc.Reload())
	assert.Equal(t, settings{Data: "a"}, doc.Get())
	assert.Equal(t, 0, hookCalls)
}

func TestReload_KeepsValueWhenFileTruncated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.yaml")
	require.NoError(t, os.WriteFile(path, []byte("key: value\n"), 0o644))
	doc := New(path, map[string]any{})
	require.NoError(t, doc.Reload())

	hookCalls := 0
	doc.OnUpdate(func(map[string]any) { hookCalls++ })

	require.NoError(t, os.Truncate(path, 0))
	err := doc.Reload()
	assert.ErrorIs(t, err, errEmptyDocument)
	assert.Equal(t, map[string]any{"key": "value"}, doc.Get())
	assert.Equal(t, 0, hookCalls)
}

func TestReload_MissingFile(t *testing.T) {
	doc := New(filepath.Join(t.TempDir(), "missing.yaml"), settings{})
	err := doc.Reload()
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSave_WritesCurrentValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.yaml")
	doc := New(path, settings{})
	doc.Set(settings{Data: "saved", Number: 42})
	require.NoError(t, doc.Save())

	other := New(path, settings{})
	require.NoError(t, other.Reload())
	assert.Equal(t, settings{Data: "saved", Number: 42}, other.Get())
}

func TestWatch_RegistersReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.yaml")
	doc := New(path, settings{Data: "a"})
	require.NoError(t, doc.Load())

	registrar := &captureRegistrar{}
	_, err := doc.Watch(registrar)
	require.NoError(t, err)
	assert.Equal(t, path, registrar.path)

	require.NoError(t, os.WriteFile(path, []byte("data: changed\n"), 0o644))
	require.NoError(t, registrar.callback())
	assert.Equal(t, "changed", doc.Get().Data)
}

func TestWatch_PropagatesRegisterError(t *testing.T) {
	doc := New(filepath.Join(t.TempDir(), "data.yaml"), settings{})
	_, err := doc.Watch(&captureRegistrar{err: monitor.ErrPathResolution})
	assert.True(t, errors.Is(err, monitor.ErrPathResolution))
}

func TestWatch_WithMonitor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.yaml")
	doc := New(path, settings{Data: "a"})
	require.NoError(t, doc.Load())

	m := monitor.New(nil)
	handle, err := doc.Watch(m)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("data: dispatched\n"), 0o644))
	assert.True(t, m.Dispatch(monitor.Event{Kind: monitor.KindDataModified, Path: handle.Path()}))
	assert.Equal(t, "dispatched", doc.Get().Data)
}

func TestSet(t *testing.T) {
	set := NewSet()
	a := New("/tmp/a.yaml", settings{Data: "a"})
	b := New("/tmp/b.yaml", map[string]any{"k": "v"})
	set.Add("b", b)
	set.Add("a", a)

	assert.Equal(t, []string{"a", "b"}, set.Names())
	got, ok := set.Get("a")
	require.True(t, ok)
	assert.Equal(t, settings{Data: "a"}, got.Snapshot())
	_, ok = set.Get("missing")
	assert.False(t, ok)
}
