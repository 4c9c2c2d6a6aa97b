package providers_test

import (
	. "gopkg.in/check.v1"

	"github.com/xenago/libnss-shim/daemon/providers"
)

type resolverSuite struct{}

var _ = Suite(&resolverSuite{})

func mustParse(c *C, doc obj) *providers.Config {
	cfg, err := providers.ParseConfig(doc)
	c.Assert(err, IsNil)
	return cfg
}

func (s *resolverSuite) TestTokenizes(c *C) {
	cfg := mustParse(c, functionDoc("passwd", "get_entry_by_name",
		`/usr/bin/lookup --name "<$name>" 'two words' escaped\ space`))

	spec, err := providers.Resolve(cfg, "passwd", "get_entry_by_name")
	c.Assert(err, IsNil)
	c.Check(spec.Argv, DeepEquals, []string{"/usr/bin/lookup", "--name", "<$name>", "two words", "escaped space"})
	c.Check(spec.Env, DeepEquals, map[string]string{})
	c.Check(spec.Workdir, Equals, "")
}

func (s *resolverSuite) TestUnconfiguredDatabaseIsNotFound(c *C) {
	cfg := mustParse(c, functionDoc("passwd", "get_all_entries", "/bin/true"))

	_, err := providers.Resolve(cfg, "group", "get_all_entries")
	c.Check(err, StatusIs, providers.StatusNotFound)
}

func (s *resolverSuite) TestMisconfiguredDatabaseIsUnavailable(c *C) {
	for _, t := range []struct {
		doc     obj
		comment string
	}{
		{obj{"databases": "passwd"}, "databases not an object"},
		{obj{"databases": obj{"passwd": "x"}}, "database not an object"},
		{obj{"databases": obj{"passwd": obj{}}}, "no functions"},
		{obj{"databases": obj{"passwd": obj{"functions": []interface{}{}}}}, "functions not an object"},
		{obj{"databases": obj{"passwd": obj{"functions": obj{}}}}, "function missing"},
		{obj{"databases": obj{"passwd": obj{"functions": obj{"get_all_entries": "cmd"}}}}, "function not an object"},
		{obj{"databases": obj{"passwd": obj{"functions": obj{"get_all_entries": obj{}}}}}, "no command"},
		{functionDoc("passwd", "get_all_entries", ""), "empty command"},
		{functionDoc("passwd", "get_all_entries", "   "), "blank command"},
		{functionDoc("passwd", "get_all_entries", `/bin/echo "unterminated`), "bad quoting"},
		{obj{"databases": obj{"passwd": obj{"functions": obj{"get_all_entries": obj{"command": 42}}}}}, "non-string command"},
	} {
		cfg := mustParse(c, t.doc)
		_, err := providers.Resolve(cfg, "passwd", "get_all_entries")
		c.Check(err, StatusIs, providers.StatusUnavailable, Commentf("%s", t.comment))
	}
}

func layeredDoc() obj {
	return obj{
		"env":     obj{"LEVEL": "global", "GLOBAL_ONLY": "1"},
		"workdir": "/global",
		"databases": obj{
			"group": obj{
				"env":     obj{"LEVEL": "database"},
				"workdir": "/database",
				"functions": obj{
					"get_all_entries": obj{
						"command": "/bin/list",
						"env":     obj{"LEVEL": "function"},
						"workdir": "/function",
					},
					"get_entry_by_gid": obj{
						"command": "/bin/bygid <$gid>",
					},
				},
			},
			"passwd": obj{
				"functions": obj{
					"get_all_entries": obj{"command": "/bin/list"},
				},
			},
		},
	}
}

func (s *resolverSuite) TestFunctionLevelWinsWithoutMerging(c *C) {
	cfg := mustParse(c, layeredDoc())

	spec, err := providers.Resolve(cfg, "group", "get_all_entries")
	c.Assert(err, IsNil)
	c.Check(spec.Env, DeepEquals, map[string]string{"LEVEL": "function"})
	c.Check(spec.Workdir, Equals, "/function")
}

func (s *resolverSuite) TestDatabaseLevelFallback(c *C) {
	cfg := mustParse(c, layeredDoc())

	spec, err := providers.Resolve(cfg, "group", "get_entry_by_gid")
	c.Assert(err, IsNil)
	c.Check(spec.Env, DeepEquals, map[string]string{"LEVEL": "database"})
	c.Check(spec.Workdir, Equals, "/database")
}

func (s *resolverSuite) TestGlobalLevelFallback(c *C) {
	cfg := mustParse(c, layeredDoc())

	spec, err := providers.Resolve(cfg, "passwd", "get_all_entries")
	c.Assert(err, IsNil)
	c.Check(spec.Env, DeepEquals, map[string]string{"LEVEL": "global", "GLOBAL_ONLY": "1"})
	c.Check(spec.Workdir, Equals, "/global")
}

func (s *resolverSuite) TestPresentButEmptyStopsTheWalk(c *C) {
	doc := layeredDoc()
	fn := doc["databases"].(obj)["group"].(obj)["functions"].(obj)["get_all_entries"].(obj)
	fn["env"] = obj{}
	fn["workdir"] = ""
	cfg := mustParse(c, doc)

	spec, err := providers.Resolve(cfg, "group", "get_all_entries")
	c.Assert(err, IsNil)
	c.Check(spec.Env, DeepEquals, map[string]string{})
	c.Check(spec.Workdir, Equals, "")
}

func (s *resolverSuite) TestWrongOverrideShapes(c *C) {
	for _, t := range []struct {
		key   string
		value interface{}
	}{
		{"env", "FOO=bar"},
		{"env", []interface{}{"FOO"}},
		{"env", obj{"FOO": 1}},
		{"env", obj{"FOO": obj{}}},
		{"workdir", 7},
		{"workdir", obj{}},
	} {
		for _, where := range []string{"global", "database", "function"} {
			doc := functionDoc("passwd", "get_all_entries", "/bin/list")
			db := doc["databases"].(obj)["passwd"].(obj)
			switch where {
			case "global":
				doc[t.key] = t.value
			case "database":
				db[t.key] = t.value
			case "function":
				db["functions"].(obj)["get_all_entries"].(obj)[t.key] = t.value
			}
			cfg := mustParse(c, doc)

			_, err := providers.Resolve(cfg, "passwd", "get_all_entries")
			c.Check(err, StatusIs, providers.StatusUnavailable, Commentf("%s %s = %v", where, t.key, t.value))
		}
	}
}

func (s *resolverSuite) TestDeterministic(c *C) {
	cfg := mustParse(c, layeredDoc())

	first, err := providers.Resolve(cfg, "group", "get_all_entries")
	c.Assert(err, IsNil)
	for i := 0; i < 10; i++ {
		again, err := providers.Resolve(cfg, "group", "get_all_entries")
		c.Assert(err, IsNil)
		c.Check(again, DeepEquals, first)
	}
}
