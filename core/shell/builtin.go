package shell

import "sort"

// Builtin classifies the first word of a command.
type Builtin int

const (
	// None means the command names an external program.
	None Builtin = iota
	Bye
	Dir
	Bg
	Fg
	Cd
	History
)

var builtinNames = map[string]Builtin{
	"bye":     Bye,
	"dir":     Dir,
	"bg":      Bg,
	"fg":      Fg,
	"cd":      Cd,
	"history": History,
}

// ParseBuiltin classifies a command name. The match is case sensitive.
func ParseBuiltin(name string) Builtin {
	if b, ok := builtinNames[name]; ok {
		return b
	}
	return None
}

func (b Builtin) String() string {
	for name, v := range builtinNames {
		if v == b {
			return name
		}
	}
	return "none"
}

// IsBuiltin reports whether b names an in-process action.
func (b Builtin) IsBuiltin() bool {
	return b != None
}

// BuiltinNames lists the builtin command names in sorted order.
func BuiltinNames() []string {
	var out []string
	for name := range builtinNames {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
