package providers_test

import (
	"context"
	"path/filepath"

	. "gopkg.in/check.v1"

	"github.com/xenago/libnss-shim/daemon/logging"
	"github.com/xenago/libnss-shim/daemon/providers"
	"github.com/xenago/libnss-shim/daemon/testutil"
)

type factorySuite struct{}

var _ = Suite(&factorySuite{})

func (s *factorySuite) TestMissingConfigStillServes(c *C) {
	buf, restore := logging.MockLogger(logging.LogLevelWarn)
	defer restore()

	path := filepath.Join(c.MkDir(), "config.json")
	p := providers.InitializeProvider(path)
	c.Check(buf.String(), Matches, `(?s)\[WARN\] \[factory\] Config file not found at .*`)

	_, err := p.GetUser(context.Background(), "alice")
	c.Check(err, StatusIs, providers.StatusUnavailable)

	exe := testutil.MockCommand(c, "lookup", `echo '{"alice": {"uid": 1000, "gid": 1000}}'`).Exe()
	rewriteDoc(c, path, functionDoc("passwd", "get_entry_by_name", exe))

	user, err := p.GetUser(context.Background(), "alice")
	c.Assert(err, IsNil)
	c.Check(user.UID, Equals, uint32(1000))
}

func (s *factorySuite) TestUnusableConfigWarns(c *C) {
	buf, restore := logging.MockLogger(logging.LogLevelWarn)
	defer restore()

	path := testutil.WriteConfig(c, "config.json", `{"debug": true}`)
	p := providers.InitializeProvider(path)
	c.Check(p, FitsTypeOf, &providers.CommandProvider{})
	c.Check(buf.String(), Matches, `(?s)\[WARN\] \[factory\] Config file .* is not usable yet: unavail: .*`)
}
