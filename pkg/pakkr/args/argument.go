package args

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// Argument is one flag registration.
type Argument struct {
	Name     string
	register func(fs *pflag.FlagSet)
}

// Dest is the parameter name the flag feeds.
func (a Argument) Dest() string {
	return Dest(a.Name)
}

// Register adds the flag to fs unless a flag with the same name is already
// there, in which case steps share it.
func (a Argument) Register(fs *pflag.FlagSet) *pflag.FlagSet {
	if fs.Lookup(a.Name) == nil {
		a.register(fs)
	}
	return fs
}

// Spec is the ordered list of arguments attached to a step.
type Spec []Argument

// AddArguments registers every argument in order and returns fs.
func (s Spec) AddArguments(fs *pflag.FlagSet) *pflag.FlagSet {
	for _, a := range s {
		fs = a.Register(fs)
	}
	return fs
}

// Dests lists the parameter names fed by the spec, in order.
func (s Spec) Dests() []string {
	dests := make([]string, len(s))
	for i, a := range s {
		dests[i] = a.Dest()
	}
	return dests
}

// Dest maps a flag name to a parameter name.
func Dest(flagName string) string {
	return strings.ReplaceAll(strings.TrimLeft(flagName, "-"), "-", "_")
}

func String(name, value, usage string) Argument {
	return Argument{Name: name, register: func(fs *pflag.FlagSet) { fs.String(name, value, usage) }}
}

func Int(name string, value int, usage string) Argument {
	return Argument{Name: name, register: func(fs *pflag.FlagSet) { fs.Int(name, value, usage) }}
}

func Bool(name string, value bool, usage string) Argument {
	return Argument{Name: name, register: func(fs *pflag.FlagSet) { fs.Bool(name, value, usage) }}
}

func Float64(name string, value float64, usage string) Argument {
	return Argument{Name: name, register: func(fs *pflag.FlagSet) { fs.Float64(name, value, usage) }}
}

func Duration(name string, value time.Duration, usage string) Argument {
	return Argument{Name: name, register: func(fs *pflag.FlagSet) { fs.Duration(name, value, usage) }}
}

func StringSlice(name string, value []string, usage string) Argument {
	return Argument{Name: name, register: func(fs *pflag.FlagSet) { fs.StringSlice(name, value, usage) }}
}

// Meta returns every flag of fs as a named value keyed by its Dest, typed by
// the flag kind. Unknown kinds are passed as their string form.
func Meta(fs *pflag.FlagSet) (map[string]any, error) {
	meta := map[string]any{}
	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		var v any
		switch f.Value.Type() {
		case "string":
			v, err = fs.GetString(f.Name)
		case "int":
			v, err = fs.GetInt(f.Name)
		case "bool":
			v, err = fs.GetBool(f.Name)
		case "float64":
			v, err = fs.GetFloat64(f.Name)
		case "duration":
			v, err = fs.GetDuration(f.Name)
		case "stringSlice":
			v, err = fs.GetStringSlice(f.Name)
		default:
			v = f.Value.String()
		}
		if err != nil {
			err = fmt.Errorf("read flag %q: %w", f.Name, err)
			return
		}
		meta[Dest(f.Name)] = v
	})
	if err != nil {
		return nil, err
	}
	return meta, nil
}
