package providers_test

import (
	. "gopkg.in/check.v1"

	"github.com/xenago/libnss-shim/daemon/providers"
)

type responseSuite struct{}

var _ = Suite(&responseSuite{})

func (s *responseSuite) TestStructured(c *C) {
	resp, err := providers.ParseResponse(`{"bob": {"uid": 2}, "alice": {"uid": 1}}`)
	c.Assert(err, IsNil)
	c.Check(resp.Structured, Equals, true)
	c.Check(resp.Names, DeepEquals, []string{"alice", "bob"})
	c.Check(resp.Lines, IsNil)
}

func (s *responseSuite) TestFlat(c *C) {
	resp, err := providers.ParseResponse("alice:x:1:1\r\nbob:x:2:2")
	c.Assert(err, IsNil)
	c.Check(resp.Structured, Equals, false)
	c.Check(resp.Lines, DeepEquals, []string{"alice:x:1:1", "bob:x:2:2"})
}

func (s *responseSuite) TestEmpty(c *C) {
	for _, text := range []string{"", "  ", "a:b", " \n\t "} {
		_, err := providers.ParseResponse(text)
		c.Check(err, StatusIs, providers.StatusNotFound, Commentf("%q", text))
	}

	_, err := providers.ParseResponse("{}")
	c.Check(err, StatusIs, providers.StatusNotFound)
}

func (s *responseSuite) TestStructuredButNotAnObject(c *C) {
	for _, text := range []string{`[]`, `[{"alice": {}}]`, `"alice"`, `1000`, `null`, `true`} {
		_, err := providers.ParseResponse(text)
		c.Check(err, StatusIs, providers.StatusTryAgain, Commentf("%q", text))
	}
}

func (s *responseSuite) TestInvalidJSONFallsBackToFlat(c *C) {
	resp, err := providers.ParseResponse(`{"alice": `)
	c.Assert(err, IsNil)
	c.Check(resp.Structured, Equals, false)
	c.Check(resp.Lines, DeepEquals, []string{`{"alice":`})
}
