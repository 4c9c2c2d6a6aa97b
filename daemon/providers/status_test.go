package providers_test

import (
	"errors"
	"fmt"

	. "gopkg.in/check.v1"

	"github.com/xenago/libnss-shim/daemon/providers"
)

type statusSuite struct{}

var _ = Suite(&statusSuite{})

func (s *statusSuite) TestStatusOf(c *C) {
	c.Check(providers.StatusOf(nil), Equals, providers.StatusSuccess)
	c.Check(providers.StatusOf(providers.NotFound("x")), Equals, providers.StatusNotFound)
	c.Check(providers.StatusOf(providers.TryAgain("x")), Equals, providers.StatusTryAgain)
	c.Check(providers.StatusOf(providers.Unavailable("x")), Equals, providers.StatusUnavailable)
	c.Check(providers.StatusOf(errors.New("stray")), Equals, providers.StatusTryAgain)
}

func (s *statusSuite) TestStatusSurvivesWrapping(c *C) {
	err := fmt.Errorf("lookup: %w", providers.Unavailable("no databases"))
	c.Check(providers.StatusOf(err), Equals, providers.StatusUnavailable)
	c.Check(err, ErrorMatches, "lookup: unavail: no databases")
}

func (s *statusSuite) TestUnwrap(c *C) {
	cause := errors.New("cause")
	err := providers.TryAgain("reading: %w", cause)
	c.Check(errors.Is(err, cause), Equals, true)
}

func (s *statusSuite) TestStrings(c *C) {
	for _, status := range []providers.Status{
		providers.StatusSuccess,
		providers.StatusNotFound,
		providers.StatusTryAgain,
		providers.StatusUnavailable,
	} {
		parsed, err := providers.ParseStatus(status.String())
		c.Assert(err, IsNil)
		c.Check(parsed, Equals, status)
	}

	c.Check(providers.StatusTryAgain.String(), Equals, "tryagain")
	_, err := providers.ParseStatus("error")
	c.Check(err, ErrorMatches, `unknown status "error"`)
}
