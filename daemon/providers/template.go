package providers

import "strings"

// Substitute returns a copy of the command with every occurrence of
// placeholder replaced by value in the arguments and in the environment
// keys and values. The replacement is literal and never reaches a shell.
// Argv[0] is left alone, and an empty placeholder yields an unchanged copy.
func (c *CommandSpec) Substitute(placeholder, value string) *CommandSpec {
	replace := func(s string) string {
		if placeholder == "" {
			return s
		}
		return strings.ReplaceAll(s, placeholder, value)
	}

	argv := make([]string, len(c.Argv))
	for i, arg := range c.Argv {
		if i == 0 {
			argv[i] = arg
			continue
		}
		argv[i] = replace(arg)
	}

	env := make(map[string]string, len(c.Env))
	for _, key := range sortedKeys(c.Env) {
		env[replace(key)] = replace(c.Env[key])
	}

	return &CommandSpec{Argv: argv, Env: env, Workdir: c.Workdir}
}
