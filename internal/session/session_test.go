package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/widgetkit/internal/errors"
	"github.com/conneroisu/widgetkit/pkg/carousel"
	"github.com/conneroisu/widgetkit/pkg/datatable"
)

type event struct {
	widget, action string
	data           any
}

type recorder struct {
	mu     sync.Mutex
	events []event
}

func (r *recorder) listen(widget, action string, data any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event{widget, action, data})
}

func (r *recorder) last() event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

func testOptions(rec *recorder) Options {
	return Options{
		Columns: []datatable.Column{
			{Key: "name", Field: "name", Sortable: true},
			{Key: "age", Field: "age", Sortable: true},
		},
		Rows: []datatable.Row{
			{"id": 1, "name": "Zed", "age": 22},
			{"id": 2, "name": "Amy", "age": 30},
		},
		Testimonials: carousel.DefaultTestimonials(),
		Selectable:   true,
		RowKey:       "id",
		ActionPrefix: "/widgets/",
		Listener:     rec.listen,
	}
}

func TestWorkspaceTable(t *testing.T) {
	rec := &recorder{}
	w := NewWorkspace("s1", testOptions(rec))

	err := w.Do(func(v *View) error {
		require.NoError(t, v.SortTable("name"))
		assert.Equal(t, "Amy", v.Table().Sorted()[0]["name"])
		assert.Equal(t, event{"table", "sort", "name"}, rec.last())

		require.NoError(t, v.ToggleRow(0))
		require.Len(t, v.Selected(), 1)
		assert.Equal(t, "Amy", v.Selected()[0]["name"])

		// keyed selection follows Amy to the bottom
		require.NoError(t, v.SortTable("name"))
		assert.True(t, v.Table().IsSelected(1))
		return nil
	})
	require.NoError(t, err)

	last := rec.events[1]
	assert.Equal(t, "select", last.action)
	assert.Equal(t, 1, last.data.(map[string]any)["count"])
}

func TestWorkspaceTableErrors(t *testing.T) {
	w := NewWorkspace("s1", testOptions(&recorder{}))

	_ = w.Do(func(v *View) error {
		err := v.SortTable("missing")
		assert.True(t, errors.IsNotFound(err))

		err = v.ToggleRow(5)
		require.Error(t, err)
		assert.Equal(t, 400, errors.HTTPStatus(err))
		return nil
	})
}

func TestWorkspaceSetRowsPrunesSilently(t *testing.T) {
	rec := &recorder{}
	w := NewWorkspace("s1", testOptions(rec))

	_ = w.Do(func(v *View) error {
		v.ToggleAll()
		require.Len(t, v.Selected(), 2)
		before := len(rec.events)

		v.SetRows([]datatable.Row{{"id": 2, "name": "Amy", "age": 30}})
		assert.Len(t, v.Selected(), 1)
		assert.Len(t, rec.events, before, "pruning does not notify")
		return nil
	})
}

func TestWorkspaceInputs(t *testing.T) {
	rec := &recorder{}
	w := NewWorkspace("s1", testOptions(rec))

	_ = w.Do(func(v *View) error {
		require.Len(t, v.Inputs(), len(InputNames))

		require.NoError(t, v.ChangeInput("email", "alice"))
		email, err := v.Input("email")
		require.NoError(t, err)
		assert.Equal(t, "alice", email.Value())
		assert.True(t, email.Props().Invalid)
		assert.Equal(t, event{"input:email", "change", "alice"}, rec.last())

		require.NoError(t, v.ChangeInput("email", "alice@example.com"))
		assert.False(t, email.Props().Invalid)

		require.NoError(t, v.ClearInput("email"))
		assert.Empty(t, email.Value())
		assert.Equal(t, event{"input:email", "clear", ""}, rec.last())

		assert.Error(t, v.ClearInput("email"), "nothing left to clear")
		assert.Error(t, v.ClearInput("token"), "disabled inputs cannot be cleared")

		require.NoError(t, v.ChangeInput("password", "hunter2"))
		assert.Equal(t, event{"input:password", "change", "•••••••"}, rec.last())

		require.NoError(t, v.RevealInput("password"))
		pw, _ := v.Input("password")
		assert.Equal(t, "text", pw.InputType())
		assert.Equal(t, "hunter2", pw.Value())

		assert.Error(t, v.RevealInput("email"))

		_, err = v.Input("nope")
		assert.True(t, errors.IsNotFound(err))
		return nil
	})
}

func TestWorkspaceCarousel(t *testing.T) {
	rec := &recorder{}
	w := NewWorkspace("s1", testOptions(rec))

	_ = w.Do(func(v *View) error {
		require.NoError(t, v.MoveCarousel("prev"))
		assert.Equal(t, 2, v.Carousel().Index())
		assert.Equal(t, event{"carousel", "prev", 2}, rec.last())

		require.NoError(t, v.MoveCarousel("next"))
		assert.Equal(t, 0, v.Carousel().Index())

		assert.True(t, errors.IsNotFound(v.MoveCarousel("sideways")))
		return nil
	})
}

func TestStoreLifecycle(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	var counts []int
	store := NewStore(time.Minute,
		func(id string) *Workspace { return NewWorkspace(id, Options{}) },
		WithClock(clock),
		WithCountHook(func(n int) { counts = append(counts, n) }),
	)

	a, created := store.GetOrCreate("")
	require.True(t, created)
	assert.NotEmpty(t, a.ID())

	same, created := store.GetOrCreate(a.ID())
	assert.False(t, created)
	assert.Same(t, a, same)

	b, created := store.GetOrCreate("unknown-id")
	assert.True(t, created)
	assert.NotEqual(t, "unknown-id", b.ID(), "clients never choose their id")
	assert.Equal(t, 2, store.Len())

	now = now.Add(45 * time.Second)
	_ = a.Do(func(*View) error { return nil })

	now = now.Add(30 * time.Second)
	assert.Equal(t, 1, store.Sweep())

	_, ok := store.Get(b.ID())
	assert.False(t, ok)
	_, ok = store.Get(a.ID())
	assert.True(t, ok)

	assert.Equal(t, []int{1, 2, 1}, counts)

	visited := 0
	store.Each(func(*Workspace) { visited++ })
	assert.Equal(t, 1, visited)
}

func TestStoreRunStopsWithContext(t *testing.T) {
	store := NewStore(time.Minute, func(id string) *Workspace { return NewWorkspace(id, Options{}) })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		store.Run(ctx, time.Millisecond)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("janitor did not stop")
	}
}

func TestWorkspaceSerializesAccess(t *testing.T) {
	w := NewWorkspace("s1", testOptions(&recorder{}))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = w.Do(func(v *View) error {
				v.Carousel().Next()
				return nil
			})
		}()
	}
	wg.Wait()

	_ = w.Do(func(v *View) error {
		assert.Equal(t, 50%3, v.Carousel().Index())
		return nil
	})
}
