package symbols

// builtinNames lists the runtime functions every program can call without
// declaring them. Their signatures are not modelled; calls type as Int.
var builtinNames = []string{
	"len",
	"push",
	"pop",
	"typeof",
	"keys",
	"values",
	"contains",
	"input",
	"argv",
	"argc",
}

var builtinSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(builtinNames))
	for _, n := range builtinNames {
		m[n] = struct{}{}
	}
	return m
}()

// IsBuiltin reports whether name refers to a runtime builtin.
func IsBuiltin(name string) bool {
	_, ok := builtinSet[name]
	return ok
}

// Builtins returns the builtin names in declaration order.
func Builtins() []string {
	out := make([]string, len(builtinNames))
	copy(out, builtinNames)
	return out
}
