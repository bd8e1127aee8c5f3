// Package script lets encounter content define bullet behaviors in Tengo
// instead of Go. A scripted type is compiled once at content load; every
// spawn gets its own clone of the compiled program, so script state never
// leaks between projectiles.
//
// A behavior script defines two functions and keeps its top level to
// definitions only, because the program re-runs on every dispatch:
//
//	init := func() {
//	    bullet.set_vel(0, bullet.param("speed"))
//	}
//	update := func(dt) {
//	    bullet.set_pos(bullet.pos_x()+bullet.vel_x()*dt, bullet.pos_y()+bullet.vel_y()*dt)
//	    if bullet.age() >= bullet.param("lifetime") {
//	        bullet.request_death()
//	    }
//	}
//
// The bullet module exposes the host projectile; mem is a mutable map that
// survives across updates for per-projectile scratch state. Scripts may
// import "math" and "fmt". There is deliberately no rand module: a fight
// must replay identically from its seed.
package script

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/velachev/barrage/internal/bullet"
	"github.com/velachev/barrage/internal/pattern"
)

// dispatch is appended to every behavior script. Each Run re-executes the
// whole program: definitions first, then this tail calls into them.
const dispatch = `
if __phase == "init" {
    init()
} else {
    update(__dt)
}
`

// Params carries a scripted type's parameter values, already merged over
// the schema defaults at content load.
type Params struct {
	Values map[string]float64
}

func (Params) IsShotParams() {}

// Source is a scripted bullet type as content declares it.
type Source struct {
	Name     string
	Script   string
	Grace    float64
	Defaults map[string]float64
}

type engine struct {
	name     string
	base     *tengo.Compiled
	defaults map[string]float64
}

// Compile turns a script source into a registrable bullet type. The script
// is compiled and probed (one init, one update against a scratch instance)
// so that syntax errors, missing functions, and most runtime mistakes fail
// the content load instead of a fight.
func Compile(src Source) (bullet.Type, error) {
	if src.Name == "" {
		return bullet.Type{}, fmt.Errorf("script: type has no name")
	}
	if src.Script == "" {
		return bullet.Type{}, fmt.Errorf("script: type %q has no script body", src.Name)
	}
	if src.Grace < 0 {
		return bullet.Type{}, fmt.Errorf("script: type %q has negative grace", src.Name)
	}

	s := tengo.NewScript([]byte(src.Script + "\n" + dispatch))
	s.SetImports(stdlib.GetModuleMap("math", "fmt"))
	for name, val := range map[string]any{
		"__phase": "",
		"__dt":    0.0,
		"__t":     0.0,
		"bullet":  &tengo.ImmutableMap{Value: map[string]tengo.Object{}},
		"mem":     &tengo.Map{Value: map[string]tengo.Object{}},
	} {
		if err := s.Add(name, val); err != nil {
			return bullet.Type{}, fmt.Errorf("script: type %q: add %s: %w", src.Name, name, err)
		}
	}
	compiled, err := s.Compile()
	if err != nil {
		return bullet.Type{}, fmt.Errorf("script: type %q: %w", src.Name, err)
	}

	defaults := make(map[string]float64, len(src.Defaults))
	for k, v := range src.Defaults {
		defaults[k] = v
	}
	e := &engine{name: src.Name, base: compiled, defaults: defaults}

	// Probe against a scratch instance so broken scripts surface now.
	probe := &scripted{engine: e, params: defaults}
	probe.Init(&bullet.Instance{})
	probe.Update(&bullet.Instance{}, 1.0/60)
	if probe.err != nil {
		return bullet.Type{}, fmt.Errorf("script: type %q: %w", src.Name, probe.err)
	}

	return bullet.Type{
		Name:        src.Name,
		DeathGrace:  src.Grace,
		ParseParams: e.parseParams,
		New:         e.newBehavior,
	}, nil
}

// parseParams validates a raw content map against the script's schema. The
// schema is the Defaults table: unknown keys fail, absent keys keep their
// default.
func (e *engine) parseParams(raw map[string]any) (pattern.Params, error) {
	merged := make(map[string]float64, len(e.defaults))
	for k, v := range e.defaults {
		merged[k] = v
	}
	for k, v := range raw {
		if _, ok := e.defaults[k]; !ok {
			return nil, fmt.Errorf("script: %s params: unknown key %q", e.name, k)
		}
		switch n := v.(type) {
		case float64:
			merged[k] = n
		case int:
			merged[k] = float64(n)
		default:
			return nil, fmt.Errorf("script: %s params: %s must be a number, got %T", e.name, k, v)
		}
	}
	return Params{Values: merged}, nil
}

func (e *engine) newBehavior(p pattern.Params) (bullet.Behavior, error) {
	vals := e.defaults
	if p != nil {
		sp, ok := p.(Params)
		if !ok {
			return nil, fmt.Errorf("script: %s: params are %T, want script.Params", e.name, p)
		}
		vals = sp.Values
	}
	return &scripted{engine: e, params: vals}, nil
}

// scripted runs one projectile's clone of the compiled program. A script
// error invalidates the instance so the next cull sweep recovers the field;
// the first error is kept and later dispatches become no-ops.
type scripted struct {
	engine   *engine
	params   map[string]float64
	compiled *tengo.Compiled
	inst     *bullet.Instance
	err      error
}

func (b *scripted) Init(inst *bullet.Instance) {
	b.inst = inst
	b.compiled = b.engine.base.Clone()
	if err := b.compiled.Set("bullet", b.hostModule()); err != nil {
		b.fail(err)
		return
	}
	if err := b.compiled.Set("mem", &tengo.Map{Value: map[string]tengo.Object{}}); err != nil {
		b.fail(err)
		return
	}
	b.run("init", 0)
}

func (b *scripted) Update(inst *bullet.Instance, dt float64) {
	b.inst = inst
	b.run("update", dt)
}

func (b *scripted) run(phase string, dt float64) {
	if b.err != nil {
		return
	}
	if err := b.compiled.Set("__phase", phase); err != nil {
		b.fail(err)
		return
	}
	if err := b.compiled.Set("__dt", dt); err != nil {
		b.fail(err)
		return
	}
	if err := b.compiled.Set("__t", b.inst.Clock()); err != nil {
		b.fail(err)
		return
	}
	if err := b.compiled.Run(); err != nil {
		b.fail(fmt.Errorf("script: %s: %w", b.engine.name, err))
	}
}

func (b *scripted) fail(err error) {
	b.err = err
	b.inst.Invalidate()
}

func (b *scripted) hostModule() tengo.Object {
	fn := func(name string, f tengo.CallableFunc) tengo.Object {
		return &tengo.UserFunction{Name: name, Value: f}
	}
	return &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"param":         fn("param", b.hostParam),
		"pos_x":         fn("pos_x", float0(func() float64 { return b.inst.Pos.X })),
		"pos_y":         fn("pos_y", float0(func() float64 { return b.inst.Pos.Y })),
		"vel_x":         fn("vel_x", float0(func() float64 { return b.inst.Vel.X })),
		"vel_y":         fn("vel_y", float0(func() float64 { return b.inst.Vel.Y })),
		"spawn_x":       fn("spawn_x", float0(func() float64 { return b.inst.SpawnPos().X })),
		"spawn_y":       fn("spawn_y", float0(func() float64 { return b.inst.SpawnPos().Y })),
		"age":           fn("age", float0(func() float64 { return b.inst.Age() })),
		"set_pos":       fn("set_pos", b.hostSetPos),
		"set_vel":       fn("set_vel", b.hostSetVel),
		"request_death": fn("request_death", b.hostRequestDeath),
	}}
}

// float0 adapts a no-argument getter into a tengo callable.
func float0(get func() float64) tengo.CallableFunc {
	return func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 0 {
			return nil, tengo.ErrWrongNumArguments
		}
		return &tengo.Float{Value: get()}, nil
	}
}

func (b *scripted) hostParam(args ...tengo.Object) (tengo.Object, error) {
	if len(args) != 1 {
		return nil, tengo.ErrWrongNumArguments
	}
	name, ok := tengo.ToString(args[0])
	if !ok {
		return nil, tengo.ErrInvalidArgumentType{Name: "name", Expected: "string", Found: args[0].TypeName()}
	}
	v, ok := b.params[name]
	if !ok {
		return nil, fmt.Errorf("undefined param %q", name)
	}
	return &tengo.Float{Value: v}, nil
}

func pair(args []tengo.Object) (float64, float64, error) {
	if len(args) != 2 {
		return 0, 0, tengo.ErrWrongNumArguments
	}
	x, ok := tengo.ToFloat64(args[0])
	if !ok {
		return 0, 0, tengo.ErrInvalidArgumentType{Name: "x", Expected: "number", Found: args[0].TypeName()}
	}
	y, ok := tengo.ToFloat64(args[1])
	if !ok {
		return 0, 0, tengo.ErrInvalidArgumentType{Name: "y", Expected: "number", Found: args[1].TypeName()}
	}
	return x, y, nil
}

func (b *scripted) hostSetPos(args ...tengo.Object) (tengo.Object, error) {
	x, y, err := pair(args)
	if err != nil {
		return nil, err
	}
	b.inst.Pos.X, b.inst.Pos.Y = x, y
	return tengo.UndefinedValue, nil
}

func (b *scripted) hostSetVel(args ...tengo.Object) (tengo.Object, error) {
	x, y, err := pair(args)
	if err != nil {
		return nil, err
	}
	b.inst.Vel.X, b.inst.Vel.Y = x, y
	return tengo.UndefinedValue, nil
}

func (b *scripted) hostRequestDeath(args ...tengo.Object) (tengo.Object, error) {
	if len(args) != 0 {
		return nil, tengo.ErrWrongNumArguments
	}
	b.inst.RequestDeath()
	return tengo.UndefinedValue, nil
}
