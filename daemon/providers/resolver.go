package providers

import (
	"github.com/google/shlex"
)

// CommandSpec is a resolved command: the argument vector, the extra
// environment variables, and the working directory ("" to inherit).
type CommandSpec struct {
	Argv    []string
	Env     map[string]string
	Workdir string
}

// level is one step of the override precedence chain.
type level struct {
	name   string
	lookup func(key string) (interface{}, bool)
}

func objectLevel(name string, obj map[string]interface{}) level {
	return level{
		name: name,
		lookup: func(key string) (interface{}, bool) {
			v, ok := obj[key]
			return v, ok
		},
	}
}

// firstPresent walks levels in order and returns the value of key at the
// first level that defines it.
func firstPresent(levels []level, key string) (interface{}, string, bool) {
	for _, l := range levels {
		if v, ok := l.lookup(key); ok {
			return v, l.name, true
		}
	}
	return nil, "", false
}

// Resolve builds the command configured for function in database. An
// unconfigured database is NotFound; a database that is configured but
// does not describe the function properly is Unavailable.
func Resolve(cfg *Config, database, function string) (*CommandSpec, error) {
	root := cfg.Document()

	databases, ok := root["databases"].(map[string]interface{})
	if !ok {
		return nil, unavailable("config key databases must be an object")
	}

	dbValue, exists := databases[database]
	if !exists {
		return nil, notFound("database %s is not configured", database)
	}
	db, ok := dbValue.(map[string]interface{})
	if !ok {
		return nil, unavailable("databases.%s must be an object", database)
	}

	fnsValue, exists := db["functions"]
	if !exists {
		return nil, unavailable("databases.%s has no functions", database)
	}
	fns, ok := fnsValue.(map[string]interface{})
	if !ok {
		return nil, unavailable("databases.%s.functions must be an object", database)
	}

	fnValue, exists := fns[function]
	if !exists {
		return nil, unavailable("databases.%s.functions has no %s", database, function)
	}
	fn, ok := fnValue.(map[string]interface{})
	if !ok {
		return nil, unavailable("databases.%s.functions.%s must be an object", database, function)
	}

	commandValue, exists := fn["command"]
	if !exists {
		return nil, unavailable("no command defined for %s.%s", database, function)
	}
	command, ok := commandValue.(string)
	if !ok {
		return nil, unavailable("command for %s.%s must be a string", database, function)
	}

	argv, err := shlex.Split(command)
	if err != nil {
		return nil, unavailable("unable to split command %q for %s.%s: %w", command, database, function, err)
	}
	if len(argv) == 0 {
		return nil, unavailable("empty command for %s.%s", database, function)
	}

	levels := []level{
		objectLevel("function", fn),
		objectLevel("database", db),
		objectLevel("global", root),
	}

	env, err := resolveEnv(levels)
	if err != nil {
		return nil, err
	}
	workdir, err := resolveWorkdir(levels)
	if err != nil {
		return nil, err
	}

	return &CommandSpec{Argv: argv, Env: env, Workdir: workdir}, nil
}

func resolveEnv(levels []level) (map[string]string, error) {
	env := map[string]string{}
	v, where, ok := firstPresent(levels, "env")
	if !ok {
		return env, nil
	}
	obj, ok := v.(map[string]interface{})
	if !ok {
		return nil, unavailable("%s env must be an object", where)
	}
	for key, value := range obj {
		s, ok := value.(string)
		if !ok {
			return nil, unavailable("%s env variable %s must be a string", where, key)
		}
		env[key] = s
	}
	return env, nil
}

func resolveWorkdir(levels []level) (string, error) {
	v, where, ok := firstPresent(levels, "workdir")
	if !ok {
		return "", nil
	}
	dir, ok := v.(string)
	if !ok {
		return "", unavailable("%s workdir must be a string", where)
	}
	return dir, nil
}
