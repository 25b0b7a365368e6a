package plugin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/admin-shell/internal/i18n"
	"github.com/2389/admin-shell/internal/telemetry"
)

type stubPlugin struct {
	id    string
	desc  Descriptor
	mount func(sc *Context, props Props) templ.Component
}

func (s *stubPlugin) ID() string             { return s.id }
func (s *stubPlugin) Descriptor() Descriptor { return s.desc }
func (s *stubPlugin) Mount(sc *Context, props Props) templ.Component {
	return s.mount(sc, props)
}

func textPlugin(id, text string) *stubPlugin {
	return &stubPlugin{id: id, mount: func(*Context, Props) templ.Component {
		return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
			_, err := io.WriteString(w, text)
			return err
		})
	}}
}

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, c.Render(context.Background(), &sb))
	return sb.String()
}

func TestRegistry(t *testing.T) {
	t.Run("register and lookup", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register(textPlugin("b", "")))
		require.NoError(t, r.Register(textPlugin("a", "")))

		p, ok := r.Lookup("a")
		require.True(t, ok)
		assert.Equal(t, "a", p.ID())
		assert.Equal(t, 2, r.Len())

		ids := []string{}
		for _, p := range r.List() {
			ids = append(ids, p.ID())
		}
		assert.Equal(t, []string{"a", "b"}, ids)
	})

	t.Run("duplicate", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register(textPlugin("a", "")))
		err := r.Register(textPlugin("a", ""))
		assert.ErrorIs(t, err, ErrDuplicatePlugin)
	})

	t.Run("frozen", func(t *testing.T) {
		r := NewRegistry()
		r.Freeze()
		r.Freeze()
		assert.True(t, r.Frozen())
		assert.ErrorIs(t, r.Register(textPlugin("a", "")), ErrRegistryFrozen)
	})

	t.Run("invalid ids", func(t *testing.T) {
		r := NewRegistry()
		for _, id := range []string{"", "Upper", "a/b", "-lead", "sp ace"} {
			assert.ErrorIs(t, r.Register(textPlugin(id, "")), ErrInvalidPluginID, id)
		}
	})
}

func TestDispatcher_MountsWithSharedContext(t *testing.T) {
	var gotCtx *Context
	var gotProps Props
	up := &stubPlugin{id: "users-permissions", mount: func(sc *Context, props Props) templ.Component {
		gotCtx, gotProps = sc, props
		return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
			_, err := io.WriteString(w, "<p>roles</p>")
			return err
		})
	}}

	reg := NewRegistry()
	require.NoError(t, reg.Register(up))
	reg.Freeze()

	var emitted []string
	updates := 0
	sc := NewContext(ContextOptions{
		Emit:       func(event string, _ telemetry.Properties) { emitted = append(emitted, event) },
		Plugins:    reg,
		UpdateMenu: func() { updates++ },
		Settings:   Settings{ProjectType: "Community"},
	})

	comp, err := NewDispatcher(reg).Dispatch(context.Background(), "users-permissions", "/roles/1", sc,
		Props{Params: map[string]string{"pluginId": "users-permissions"}})
	require.NoError(t, err)
	assert.Equal(t, "<p>roles</p>", render(t, comp))

	require.Same(t, sc, gotCtx)
	assert.Equal(t, "users-permissions", gotProps.PluginID)
	assert.Equal(t, "/roles/1", gotProps.SubPath)
	assert.Equal(t, []string{"roles", "1"}, gotProps.Segments())
	assert.Equal(t, "users-permissions", gotProps.Params["pluginId"])

	gotCtx.EmitEvent("didOpenRoles", nil)
	gotCtx.UpdateMenu()
	assert.Equal(t, []string{"didOpenRoles"}, emitted)
	assert.Equal(t, 1, updates)
	assert.Same(t, reg, gotCtx.Plugins())
	assert.Equal(t, "Community", gotCtx.Settings().ProjectType)
}

func TestDispatcher_UnknownPlugin(t *testing.T) {
	reg := NewRegistry()
	reg.Freeze()

	comp, err := NewDispatcher(reg).Dispatch(context.Background(), "nope", "", NewContext(ContextOptions{}), Props{})
	assert.Nil(t, comp)
	assert.ErrorIs(t, err, ErrPluginNotFound)
}

type pagedPlugin struct {
	*stubPlugin
	pages []string
}

func (p pagedPlugin) HasPage(subPath string) bool {
	for _, pg := range p.pages {
		if pg == subPath {
			return true
		}
	}
	return false
}

func TestDispatcher_UnknownPage(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(pagedPlugin{stubPlugin: textPlugin("docs", "overview"), pages: []string{"/", "/api"}}))
	reg.Freeze()
	d := NewDispatcher(reg)
	sc := NewContext(ContextOptions{})

	comp, err := d.Dispatch(context.Background(), "docs", "", sc, Props{})
	require.NoError(t, err)
	assert.Equal(t, "overview", render(t, comp))

	comp, err = d.Dispatch(context.Background(), "docs", "/nope", sc, Props{})
	assert.Nil(t, comp)
	assert.ErrorIs(t, err, ErrPageNotFound)
	assert.NotErrorIs(t, err, ErrPluginFault)
}

func TestDispatcher_Faults(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(&stubPlugin{id: "panics-mount", mount: func(*Context, Props) templ.Component {
		panic("boom")
	}}))
	require.NoError(t, reg.Register(&stubPlugin{id: "panics-render", mount: func(*Context, Props) templ.Component {
		return templ.ComponentFunc(func(context.Context, io.Writer) error { panic("late boom") })
	}}))
	require.NoError(t, reg.Register(&stubPlugin{id: "errors", mount: func(*Context, Props) templ.Component {
		return templ.ComponentFunc(func(context.Context, io.Writer) error { return errors.New("bad") })
	}}))
	require.NoError(t, reg.Register(&stubPlugin{id: "nil", mount: func(*Context, Props) templ.Component {
		return nil
	}}))
	reg.Freeze()

	d := NewDispatcher(reg)
	for _, id := range []string{"panics-mount", "panics-render", "errors", "nil"} {
		t.Run(id, func(t *testing.T) {
			comp, err := d.Dispatch(context.Background(), id, "/", NewContext(ContextOptions{}), Props{})
			assert.Nil(t, comp)
			assert.ErrorIs(t, err, ErrPluginFault)
		})
	}
}

func TestDispatcher_Concurrent(t *testing.T) {
	reg := NewRegistry()
	for i := 0; i < 5; i++ {
		require.NoError(t, reg.Register(textPlugin(fmt.Sprintf("p%d", i), fmt.Sprintf("plugin %d", i))))
	}
	reg.Freeze()
	d := NewDispatcher(reg)
	sc := NewContext(ContextOptions{Plugins: reg})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("p%d", i%5)
			comp, err := d.Dispatch(context.Background(), id, "/", sc, Props{})
			if assert.NoError(t, err) {
				var sb strings.Builder
				assert.NoError(t, comp.Render(context.Background(), &sb))
				assert.Equal(t, fmt.Sprintf("plugin %d", i%5), sb.String())
			}
		}(i)
	}
	wg.Wait()
}

func TestNewContext_Defaults(t *testing.T) {
	sc := NewContext(ContextOptions{})
	assert.NotPanics(t, func() {
		sc.EmitEvent("x", nil)
		sc.UpdateMenu()
	})
	assert.Equal(t, "Hi", sc.FormatMessage(i18n.Msg("id", "Hi")))
	assert.True(t, sc.Plugins().Frozen())
	assert.Equal(t, 0, sc.Plugins().Len())
}

func TestDecodeProps(t *testing.T) {
	var out struct {
		Name  string `props:"name"`
		Count int    `props:"count"`
	}
	require.NoError(t, DecodeProps(map[string]any{"name": "x", "count": "3"}, &out))
	assert.Equal(t, "x", out.Name)
	assert.Equal(t, 3, out.Count)

	err := DecodeProps(map[string]any{"unknown": true}, &out)
	assert.Error(t, err)
}
