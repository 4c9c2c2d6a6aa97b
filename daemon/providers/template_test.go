package providers_test

import (
	. "gopkg.in/check.v1"

	"github.com/xenago/libnss-shim/daemon/providers"
)

type templateSuite struct{}

var _ = Suite(&templateSuite{})

func (s *templateSuite) TestSubstitutesArgsAndEnv(c *C) {
	spec := &providers.CommandSpec{
		Argv:    []string{"/opt/<$name>/lookup", "--user=<$name>", "<$name><$name>", "plain"},
		Env:     map[string]string{"USER_<$name>": "<$name>", "STATIC": "value"},
		Workdir: "/home/<$name>",
	}

	out := spec.Substitute("<$name>", "alice")
	c.Check(out.Argv, DeepEquals, []string{"/opt/<$name>/lookup", "--user=alice", "alicealice", "plain"})
	c.Check(out.Env, DeepEquals, map[string]string{"USER_alice": "alice", "STATIC": "value"})
	c.Check(out.Workdir, Equals, "/home/<$name>")

	// the receiver is untouched
	c.Check(spec.Argv[1], Equals, "--user=<$name>")
	c.Check(spec.Env["USER_<$name>"], Equals, "<$name>")
}

func (s *templateSuite) TestLiteralReplacement(c *C) {
	spec := &providers.CommandSpec{Argv: []string{"/bin/lookup", "<$uid>", "<$gid>", "$(<$name>)"}}

	out := spec.Substitute("<$uid>", `1000; rm -rf / $(id) .*`)
	c.Check(out.Argv, DeepEquals, []string{"/bin/lookup", `1000; rm -rf / $(id) .*`, "<$gid>", "$(<$name>)"})
}

func (s *templateSuite) TestEmptyPlaceholder(c *C) {
	spec := &providers.CommandSpec{
		Argv: []string{"/bin/list", "<$name>"},
		Env:  map[string]string{"A": "<$uid>"},
	}

	out := spec.Substitute("", "ignored")
	c.Check(out, DeepEquals, spec)
	c.Check(out, Not(Equals), spec)
}
