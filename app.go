package vfx

import (
	"fmt"
	"reflect"
)

// App holds the resources installed by modules: the logger, the device and
// the effect cache.
type App struct {
	modules   []Module
	resources map[reflect.Type]any
	// order of insertion, used to release resources in reverse
	order []reflect.Type
}

type Module interface {
	Install(app *App, cmd *Commands)
}

func (app *App) Commands() *Commands {
	return &Commands{
		app: app,
	}
}

func (app *App) addResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if resourceType == nil || resourceType.Kind() != reflect.Pointer {
			panic(fmt.Sprintf("resource %v must be a pointer", resourceType))
		}
		if _, ok := app.resources[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}

		app.resources[resourceType.Elem()] = resource
		app.order = append(app.order, resourceType.Elem())
	}
	return app
}

// Resource returns the resource of type *T, if installed.
func Resource[T any](app *App) (*T, bool) {
	if app == nil || app.resources == nil {
		return nil, false
	}
	r, ok := app.resources[reflect.TypeFor[T]()]
	if !ok {
		return nil, false
	}
	return r.(*T), true
}

// Release releases every resource that owns device memory, newest first.
func (app *App) Release() {
	for i := len(app.order) - 1; i >= 0; i-- {
		if r, ok := app.resources[app.order[i]].(interface{ Release() }); ok {
			r.Release()
		}
	}
}
