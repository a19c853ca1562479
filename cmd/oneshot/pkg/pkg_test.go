package pkg_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-phorce/oneshot/cmd/oneshot/pkg"
	"github.com/go-phorce/oneshot/ctl"
	"github.com/stretchr/testify/suite"
)

type testSuite struct {
	suite.Suite
	baseArgs []string
	out      bytes.Buffer
}

func (s *testSuite) run(additionalFlags ...string) ctl.ReturnCode {
	rc := pkg.ParseAndRun("oneshot", append(s.baseArgs, additionalFlags...), &s.out)
	return rc
}

// hasText is a helper method to assert that the out stream contains the supplied
// text somewhere
func (s *testSuite) hasText(texts ...string) {
	outStr := s.out.String()
	for _, t := range texts {
		s.True(strings.Index(outStr, t) >= 0, "Expecting to find text %q in value %q", t, outStr)
	}
}

func (s *testSuite) hasNoText(texts ...string) {
	outStr := s.out.String()
	for _, t := range texts {
		s.True(strings.Index(outStr, t) < 0, "Expecting to NOT find text %q in value %q", t, outStr)
	}
}

func Test_CtlSuite(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) SetupTest() {
	s.baseArgs = []string{"oneshot"}
	s.out.Reset()
}

func (s *testSuite) Test_Usage() {
	s.Equal(ctl.RCUsage, s.run())
	s.Equal(ctl.RCUsage, s.run("run"))
	s.Equal(ctl.RCUsage, s.run("--cfg", "testdata/oneshot.yaml", "unknown"))
}

func (s *testSuite) Test_Validate() {
	s.Equal(ctl.RCOkay, s.run("--cfg", "testdata/oneshot.yaml", "validate"))
	s.hasText(
		`"name": "first"`,
		`"timing": "after 50ms"`,
		`"timing": "at 01/01/2020 00:00:00"`,
		`"action": "exec"`,
	)
	s.hasNoText("first task")
}

func (s *testSuite) Test_ValidateInvalid() {
	s.Equal(ctl.RCFailed, s.run("--cfg", "testdata/invalid.yaml", "validate"))
	s.Equal(ctl.RCFailed, s.run("--cfg", "testdata/notfound.yaml", "validate"))
}

func (s *testSuite) Test_Run() {
	s.Equal(ctl.RCOkay, s.run("--cfg", "testdata/oneshot.yaml", "--log-level", "tasks=DEBUG", "run", "--timeout", "10s"))
	s.hasText(
		"first task\n",
		"second task\n",
		"past task\n",
		"echo task\n",
		`"completed": 4`,
		`"failed": 0`,
		`"pending": 0`,
		`"state": "done"`,
	)
}

func (s *testSuite) Test_RunFailed() {
	s.Equal(ctl.RCFailed, s.run("--cfg", "testdata/failed.yaml", "run", "--timeout", "10s"))
	s.hasText(
		`"completed": 1`,
		`"failed": 1`,
		`"error": "command \"/oneshot/notfound/command\"`,
	)
}

func (s *testSuite) Test_RunTimeout() {
	s.Equal(ctl.RCFailed, s.run("--cfg", "testdata/pending.yaml", "run", "--timeout", "1s"))
	s.hasText(
		"soon task\n",
		`"completed": 1`,
		`"pending": 1`,
		`"state": "idle"`,
	)
	s.hasNoText("later task")
}

func (s *testSuite) Test_RunInvalidLogLevel() {
	s.Equal(ctl.RCFailed, s.run("--cfg", "testdata/oneshot.yaml", "--log-level", "tasks", "run"))
}
