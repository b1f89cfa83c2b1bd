// Package scripting wraps a single gopher-lua VM so content packs can define
// social-rule preconditions and life-event probability/effect functions in
// Lua instead of Go. Single-goroutine access only (simulation step).
package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/storyloom/loom/internal/component"
	"github.com/storyloom/loom/internal/core/ecs"
	"github.com/storyloom/loom/internal/life"
	"github.com/storyloom/loom/internal/relationship"
	"github.com/storyloom/loom/internal/simtime"
)

// Engine owns the Lua VM and the narrow world API exposed to scripts.
type Engine struct {
	vm  *lua.LState
	log *zap.Logger

	world  *ecs.World
	book   *relationship.RuleBook
	schema *relationship.Schema
	clock  *simtime.Clock
}

// NewEngine creates the VM and loads every .lua file in the directory.
// Scripts only define functions at load time; nothing runs until a hook is
// called.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	e.registerAPI()

	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, err
	}
	return e, nil
}

// Bind wires the world the API functions operate on. Must be called before
// any hook runs.
func (e *Engine) Bind(world *ecs.World, book *relationship.RuleBook, schema *relationship.Schema, clock *simtime.Clock) {
	e.world = world
	e.book = book
	e.schema = schema
	e.clock = clock
}

func (e *Engine) Close() {
	e.vm.Close()
}

// loadDir loads all .lua files in a directory. A missing directory is fine.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// registerAPI publishes the loom table: the only world access scripts get.
func (e *Engine) registerAPI() {
	api := e.vm.NewTable()

	api.RawSetString("age", e.vm.NewFunction(func(L *lua.LState) int {
		id := ecs.EntityID(L.CheckNumber(1))
		if c, ok := ecs.TryGet[component.GameCharacter](e.world, id); ok {
			L.Push(lua.LNumber(c.Age))
		} else {
			L.Push(lua.LNil)
		}
		return 1
	}))

	api.RawSetString("get_stat", e.vm.NewFunction(func(L *lua.LState) int {
		subject := ecs.EntityID(L.CheckNumber(1))
		target := ecs.EntityID(L.CheckNumber(2))
		name := L.CheckString(3)
		r, err := relationship.Get(e.world, subject, target)
		if err != nil {
			L.Push(lua.LNil)
			return 1
		}
		s, err := r.Stat(name)
		if err != nil {
			L.RaiseError("unknown stat %q", name)
			return 0
		}
		L.Push(lua.LNumber(s.Scaled()))
		return 1
	}))

	api.RawSetString("adjust_stat", e.vm.NewFunction(func(L *lua.LState) int {
		subject := ecs.EntityID(L.CheckNumber(1))
		target := ecs.EntityID(L.CheckNumber(2))
		name := L.CheckString(3)
		delta := int(L.CheckNumber(4))
		r, err := relationship.Add(e.world, e.book, e.schema, subject, target)
		if err != nil {
			L.RaiseError("adjust_stat: %v", err)
			return 0
		}
		s, err := r.Stat(name)
		if err != nil {
			L.RaiseError("unknown stat %q", name)
			return 0
		}
		s.Adjust(delta)
		return 0
	}))

	api.RawSetString("compatibility", e.vm.NewFunction(func(L *lua.LState) int {
		a, okA := ecs.TryGet[component.Virtues](e.world, ecs.EntityID(L.CheckNumber(1)))
		b, okB := ecs.TryGet[component.Virtues](e.world, ecs.EntityID(L.CheckNumber(2)))
		if !okA || !okB {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(lua.LNumber(component.Compatibility(a, b)))
		return 1
	}))

	api.RawSetString("years_in_business", e.vm.NewFunction(func(L *lua.LState) int {
		b, ok := ecs.TryGet[component.Business](e.world, ecs.EntityID(L.CheckNumber(1)))
		if !ok || e.clock == nil {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(lua.LNumber(b.YearsInBusiness(e.clock.Now())))
		return 1
	}))

	e.vm.SetGlobal("loom", api)
}

// Precondition wraps a Lua function of (subject, target) -> bool as a
// social-rule precondition. A script error fails closed: the rule does not
// apply.
func (e *Engine) Precondition(fnName string) relationship.Precondition {
	return func(_ *ecs.World, subject, target ecs.EntityID) bool {
		result, err := e.call1(fnName, lua.LNumber(subject), lua.LNumber(target))
		if err != nil {
			e.log.Error("lua precondition error", zap.String("fn", fnName), zap.Error(err))
			return false
		}
		return lua.LVAsBool(result)
	}
}

// Probability wraps a Lua function of (event) -> number. A script error
// fails closed: probability zero.
func (e *Engine) Probability(fnName string) life.Probability {
	return func(_ *ecs.World, ev *life.Event) float64 {
		result, err := e.call1(fnName, e.eventTable(ev))
		if err != nil {
			e.log.Error("lua probability error", zap.String("fn", fnName), zap.Error(err))
			return 0
		}
		return float64(lua.LVAsNumber(result))
	}
}

// Effect wraps a Lua function of (event). Script errors here abort the step,
// matching Go effects.
func (e *Engine) Effect(fnName string) life.Effect {
	return func(_ *ecs.World, ev *life.Event) error {
		if _, err := e.call1(fnName, e.eventTable(ev)); err != nil {
			return fmt.Errorf("lua effect %q: %w", fnName, err)
		}
		return nil
	}
}

// HasFunction reports whether scripts defined a global function of the name.
func (e *Engine) HasFunction(name string) bool {
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

func (e *Engine) call1(fnName string, args ...lua.LValue) (lua.LValue, error) {
	fn := e.vm.GetGlobal(fnName)
	if fn == lua.LNil {
		return nil, fmt.Errorf("lua function %q not found", fnName)
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		return nil, err
	}
	result := e.vm.Get(-1)
	e.vm.Pop(1)
	return result, nil
}

func (e *Engine) eventTable(ev *life.Event) *lua.LTable {
	t := e.vm.NewTable()
	t.RawSetString("type", lua.LString(ev.Type))
	roles := e.vm.NewTable()
	for name, id := range ev.Roles() {
		roles.RawSetString(name, lua.LNumber(id))
	}
	t.RawSetString("roles", roles)
	return t
}
