package anim

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/Knetic/govaluate.v3"

	"skeleton-renderer/internal/kinematics"
)

var functions = map[string]govaluate.ExpressionFunction{
	"sin":   unary(math.Sin),
	"cos":   unary(math.Cos),
	"abs":   unary(math.Abs),
	"sqrt":  unary(math.Sqrt),
	"min":   binary(math.Min),
	"max":   binary(math.Max),
	"clamp": clamp,
}

func number(v interface{}) (float64, error) {
	f, ok := v.(float64)
	if !ok {
		return 0, errors.Errorf("expected number, got %T", v)
	}
	return f, nil
}

func unary(fn func(float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, errors.Errorf("want 1 argument, got %d", len(args))
		}
		x, err := number(args[0])
		if err != nil {
			return nil, err
		}
		return fn(x), nil
	}
}

func binary(fn func(float64, float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		if len(args) != 2 {
			return nil, errors.Errorf("want 2 arguments, got %d", len(args))
		}
		a, err := number(args[0])
		if err != nil {
			return nil, err
		}
		b, err := number(args[1])
		if err != nil {
			return nil, err
		}
		return fn(a, b), nil
	}
}

func clamp(args ...interface{}) (interface{}, error) {
	if len(args) != 3 {
		return nil, errors.Errorf("clamp wants 3 arguments, got %d", len(args))
	}
	v := make([]float64, 3)
	for i, a := range args {
		f, err := number(a)
		if err != nil {
			return nil, err
		}
		v[i] = f
	}
	return math.Max(v[1], math.Min(v[2], v[0])), nil
}

type channel struct {
	name  string
	coord kinematics.Coordinate
	expr  *govaluate.EvaluableExpression
}

// Driver evaluates a script at arbitrary times. It is safe for
// concurrent use: expressions are read-only after compilation.
type Driver struct {
	script   *Script
	channels []channel
}

var knownParams = map[string]bool{"t": true, "frame": true, "duration": true, "pi": true}

// NewDriver compiles the script's expressions against a definition.
// Unknown coordinate names and unknown variables are errors.
func NewDriver(s *Script, def *kinematics.Definition) (*Driver, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	d := &Driver{script: s}

	names := make([]string, 0, len(s.Coordinates))
	for n := range s.Coordinates {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		c, ok := def.CoordinateIndex(n)
		if !ok {
			return nil, errors.Errorf("script drives unknown coordinate %q", n)
		}
		ch, err := compile(n, c, s.Coordinates[n])
		if err != nil {
			return nil, err
		}
		d.channels = append(d.channels, ch)
	}
	if s.All != "" {
		for i, n := range def.Coordinates {
			if _, listed := s.Coordinates[n]; listed {
				continue
			}
			ch, err := compile(n, kinematics.Coordinate(i), s.All)
			if err != nil {
				return nil, err
			}
			d.channels = append(d.channels, ch)
		}
	}
	return d, nil
}

func compile(name string, c kinematics.Coordinate, src string) (channel, error) {
	expr, err := govaluate.NewEvaluableExpressionWithFunctions(src, functions)
	if err != nil {
		return channel{}, errors.Wrapf(err, "coordinate %q", name)
	}
	for _, v := range expr.Vars() {
		if !knownParams[v] {
			return channel{}, errors.Errorf("coordinate %q: unknown variable %q", name, v)
		}
	}
	return channel{name: name, coord: c, expr: expr}, nil
}

// Script returns the script the driver was built from.
func (d *Driver) Script() *Script {
	return d.script
}

// Coordinates evaluates every channel at time t.
func (d *Driver) Coordinates(t float64) (kinematics.Coordinates, error) {
	return d.evaluate(t, t*d.script.FPS)
}

// Frame evaluates frame i. frame is exactly i.
func (d *Driver) Frame(i int) (kinematics.Coordinates, error) {
	return d.evaluate(d.script.FrameTime(i), float64(i))
}

func (d *Driver) evaluate(t, frame float64) (kinematics.Coordinates, error) {
	params := map[string]interface{}{
		"t":        t,
		"frame":    frame,
		"duration": d.script.Duration,
		"pi":       math.Pi,
	}
	q := make(kinematics.Coordinates, len(d.channels))
	for _, ch := range d.channels {
		v, err := ch.expr.Evaluate(params)
		if err != nil {
			return nil, errors.Wrapf(err, "coordinate %q at t=%v", ch.name, t)
		}
		f, err := number(v)
		if err != nil {
			return nil, errors.Wrapf(err, "coordinate %q", ch.name)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, errors.Errorf("coordinate %q at t=%v is not finite", ch.name, t)
		}
		q[ch.coord] = f
	}
	return q, nil
}
