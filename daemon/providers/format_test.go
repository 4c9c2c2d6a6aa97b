package providers_test

import (
	. "gopkg.in/check.v1"

	"github.com/xenago/libnss-shim/daemon/providers"
)

type formatSuite struct{}

var _ = Suite(&formatSuite{})

func (s *formatSuite) TestFormatUser(c *C) {
	c.Check(providers.FormatUser(alice), Equals, "alice:x:1000:1000:Alice:/home/alice:/bin/bash")
}

func (s *formatSuite) TestFormatGroup(c *C) {
	c.Check(providers.FormatGroup(&providers.Group{Name: "wheel", Passwd: "x", GID: 10, Members: []string{"alice", "bob"}}),
		Equals, "wheel:x:10:alice,bob")
	c.Check(providers.FormatGroup(&providers.Group{Name: "users", GID: 100}), Equals, "users::100:")
}

func (s *formatSuite) TestFormatShadow(c *C) {
	shadow := providers.NewShadow("alice")
	shadow.Passwd = "!"
	c.Check(providers.FormatShadow(shadow), Equals, "alice:!:::::::")

	shadow.LastChange = 19000
	shadow.MinDays = 0
	shadow.MaxDays = 99999
	shadow.Reserved = 0
	c.Check(providers.FormatShadow(shadow), Equals, "alice:!:19000:0:99999::::0")
}

func (s *formatSuite) TestFormattedLinesParseBack(c *C) {
	user, err := providers.UserNamed(parse(c, providers.FormatUser(alice)), "alice")
	c.Assert(err, IsNil)
	c.Check(user, DeepEquals, alice)

	shadow := providers.NewShadow("alice")
	shadow.WarnDays = 7
	parsed, err := providers.ShadowNamed(parse(c, providers.FormatShadow(shadow)), "alice")
	c.Assert(err, IsNil)
	c.Check(parsed, DeepEquals, shadow)
}
