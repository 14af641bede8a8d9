package vfx

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockResource1 struct {
	name string
}
type MockResource2 struct {
	name     string
	released *[]string
}

func (r *MockResource2) Release() {
	*r.released = append(*r.released, r.name)
}

type MockResource3 struct {
	MockResource2
}

func NewMockResource1(name string) *MockResource1 {
	return &MockResource1{name: name}
}

func TestApp_addResources(t *testing.T) {
	app := &App{
		resources: make(map[reflect.Type]any),
	}

	resource1 := NewMockResource1("Resource1")
	app.addResources(resource1)
	assert.Contains(t, app.resources, reflect.TypeOf(resource1).Elem(), "Resource1 should be in resources map.")

	// Expect panic when trying to add the same type of resource again
	require.PanicsWithValue(t, fmt.Sprintf("%s is already in resources", reflect.TypeOf(resource1)), func() {
		app.addResources(resource1)
	})

	require.Panics(t, func() {
		app.addResources(MockResource1{name: "by value"})
	})
}

func TestResource(t *testing.T) {
	app := NewAppBuilder().Build()

	_, ok := Resource[MockResource1](app)
	assert.False(t, ok)

	app.Commands().AddResources(NewMockResource1("r1"))
	r, ok := Resource[MockResource1](app)
	require.True(t, ok)
	assert.Equal(t, "r1", r.name)

	_, ok = Resource[MockResource1](nil)
	assert.False(t, ok)
}

func TestApp_ReleaseNewestFirst(t *testing.T) {
	var released []string
	app := NewAppBuilder().Build()
	app.Commands().AddResources(
		&MockResource2{name: "first", released: &released},
		NewMockResource1("not releasable"),
	)
	app.Commands().AddResources(&MockResource3{MockResource2{name: "second", released: &released}})

	app.Release()
	assert.Equal(t, []string{"second", "first"}, released)
}

func TestApp_Logger(t *testing.T) {
	var app *App
	assert.NotNil(t, app.Logger())

	app = NewAppBuilder().Build()
	assert.False(t, app.Logger().DebugEnabled())

	app = NewAppBuilder().UseModule(LoggingModule{Prefix: "test", Debug: true}).Build()
	assert.True(t, app.Logger().DebugEnabled())
	_, ok := app.Logger().(*DefaultLogger)
	assert.True(t, ok)
}
