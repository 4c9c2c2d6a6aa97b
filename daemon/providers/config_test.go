package providers_test

import (
	"path/filepath"

	. "gopkg.in/check.v1"

	"github.com/xenago/libnss-shim/daemon/providers"
	"github.com/xenago/libnss-shim/daemon/testutil"
)

type configSuite struct{}

var _ = Suite(&configSuite{})

func (s *configSuite) TestLoadJSON(c *C) {
	path := testutil.WriteConfig(c, "config.json", `{
		"debug": true,
		"databases": {"passwd": {"functions": {"get_all_entries": {"command": "/bin/true"}}}}
	}`)

	cfg, err := providers.LoadConfig(path)
	c.Assert(err, IsNil)
	c.Check(cfg.Debug, Equals, true)
	c.Check(cfg.Document()["databases"], FitsTypeOf, map[string]interface{}{})
}

func (s *configSuite) TestDebugDefaultsFalse(c *C) {
	path := testutil.WriteConfig(c, "config.json", `{"databases": {}}`)

	cfg, err := providers.LoadConfig(path)
	c.Assert(err, IsNil)
	c.Check(cfg.Debug, Equals, false)
}

func (s *configSuite) TestLoadYAML(c *C) {
	path := testutil.WriteConfig(c, "config.yaml", `
debug: false
env:
  LEVEL: global
databases:
  group:
    functions:
      get_entry_by_name:
        command: /usr/bin/lookup --group <$name>
`)

	cfg, err := providers.LoadConfig(path)
	c.Assert(err, IsNil)

	spec, err := providers.Resolve(cfg, "group", "get_entry_by_name")
	c.Assert(err, IsNil)
	c.Check(spec.Argv, DeepEquals, []string{"/usr/bin/lookup", "--group", "<$name>"})
	c.Check(spec.Env, DeepEquals, map[string]string{"LEVEL": "global"})
}

func (s *configSuite) TestLoadTOML(c *C) {
	path := testutil.WriteConfig(c, "config.toml", `
debug = true

[databases.shadow]
workdir = "/var/lib/shim"

[databases.shadow.functions.get_all_entries]
command = "/usr/bin/lookup --shadow"
`)

	cfg, err := providers.LoadConfig(path)
	c.Assert(err, IsNil)
	c.Check(cfg.Debug, Equals, true)

	spec, err := providers.Resolve(cfg, "shadow", "get_all_entries")
	c.Assert(err, IsNil)
	c.Check(spec.Argv, DeepEquals, []string{"/usr/bin/lookup", "--shadow"})
	c.Check(spec.Workdir, Equals, "/var/lib/shim")
}

func (s *configSuite) TestLoadFailures(c *C) {
	for _, t := range []struct {
		name    string
		content string
		status  providers.Status
	}{
		{"config.json", `{}`, providers.StatusUnavailable},
		{"config.json", `[]`, providers.StatusUnavailable},
		{"config.json", `"databases"`, providers.StatusUnavailable},
		{"config.json", `{"databases": `, providers.StatusUnavailable},
		{"config.json", `not json at all`, providers.StatusUnavailable},
		{"config.json", `{"debug": true}`, providers.StatusUnavailable},
		{"config.json", `{"debug": "yes", "databases": {}}`, providers.StatusTryAgain},
		{"config.json", `{"debug": 1, "databases": {}}`, providers.StatusTryAgain},
		{"config.yaml", "databases: [unclosed", providers.StatusUnavailable},
		{"config.yaml", "- a\n- b\n", providers.StatusUnavailable},
		{"config.toml", "databases = ", providers.StatusUnavailable},
	} {
		path := testutil.WriteConfig(c, t.name, t.content)
		_, err := providers.LoadConfig(path)
		c.Check(err, StatusIs, t.status, Commentf("%s: %q", t.name, t.content))
	}
}

func (s *configSuite) TestLoadMissingFile(c *C) {
	_, err := providers.LoadConfig(filepath.Join(c.MkDir(), "absent.json"))
	c.Check(err, StatusIs, providers.StatusUnavailable)
	c.Check(err, ErrorMatches, "unavail: failed to read config file: .*")
}

func (s *configSuite) TestParseConfigNormalizesYAMLMaps(c *C) {
	cfg, err := providers.ParseConfig(map[interface{}]interface{}{
		"databases": map[interface{}]interface{}{
			"passwd": map[interface{}]interface{}{
				"functions": map[interface{}]interface{}{
					"get_all_entries": map[interface{}]interface{}{"command": "/bin/echo"},
				},
			},
		},
	})
	c.Assert(err, IsNil)

	_, err = providers.Resolve(cfg, "passwd", "get_all_entries")
	c.Check(err, IsNil)
}

func (s *configSuite) TestFunctionsOf(c *C) {
	cfg, err := providers.ParseConfig(map[string]interface{}{
		"databases": map[string]interface{}{
			"passwd": map[string]interface{}{
				"functions": map[string]interface{}{
					"get_all_entries":   map[string]interface{}{"command": "/bin/list"},
					"get_entry_by_name": map[string]interface{}{"command": "/bin/get"},
				},
			},
			"group": map[string]interface{}{"functions": "broken"},
		},
	})
	c.Assert(err, IsNil)

	c.Check(cfg.FunctionsOf("passwd"), DeepEquals, map[string]bool{"get_all_entries": true, "get_entry_by_name": true})
	c.Check(cfg.FunctionsOf("group"), IsNil)
	c.Check(cfg.FunctionsOf("shadow"), IsNil)
}
