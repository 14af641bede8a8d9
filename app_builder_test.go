package vfx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type MockModule struct {
	installed bool
	order     *[]string
	name      string
}

func (m *MockModule) Install(app *App, commands *Commands) {
	m.installed = true
	if m.order != nil {
		*m.order = append(*m.order, m.name)
	}
}

func TestAppBuilder_UseModule(t *testing.T) {
	builder := NewAppBuilder()
	mockModule := &MockModule{}
	builder.UseModule(mockModule)

	assert.Len(t, builder.modules, 1)
	assert.False(t, mockModule.installed, "modules install on Build")
}

func TestAppBuilder_Build(t *testing.T) {
	var order []string
	m1 := &MockModule{name: "m1", order: &order}
	m2 := &MockModule{name: "m2", order: &order}

	app := NewAppBuilder().UseModule(m1).UseModule(m2).Build()

	assert.True(t, m1.installed)
	assert.True(t, m2.installed)
	assert.Equal(t, []string{"m1", "m2"}, order)
	assert.Len(t, app.modules, 2)
	assert.NotNil(t, app.resources)
}
