package ctl_test

import (
	"bytes"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/go-phorce/oneshot/ctl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fooActionParams struct {
	fooflag *string
}

type barActionParams struct {
	barflag *string
}

func Test_NewControl(t *testing.T) {
	assert.Panics(t, func() {
		ctl.NewControl(&ctl.ControlDefinition{})
	})
}

func Test_ParseCore(t *testing.T) {
	app := ctl.NewApplication("test", "A test command-line tool").Terminate(nil)

	cli := ctl.NewControl(&ctl.ControlDefinition{
		App:       app,
		Output:    os.Stdout,
		ErrOutput: os.Stderr,
	})

	app.Command("foo", "foo description")
	app.Command("bar", "bar description")

	assert.Equal(t, app, cli.App())
	assert.Equal(t, os.Stdout, cli.Writer())
	assert.Equal(t, os.Stderr, cli.ErrWriter())

	foobar := app.Command("foobar", "foobar description")
	foobarflag := foobar.Flag("foobarflag", "foobarflag description").Required().String()
	timeout := foobar.Flag("timeout", "timeout description").Default("1m").Duration()

	cmd, out := parse(cli, []string{"test", "-V", "foo"})
	assert.Empty(t, cmd)
	assert.Equal(t, "ERROR: unknown short flag '-V'\n", out)

	cmd, _ = parse(cli, []string{"test", "foo"})
	require.Equal(t, ctl.RCOkay, cli.ReturnCode())
	assert.Equal(t, "foo", cmd)

	cmd, _ = parse(cli, []string{"test", "foobar", "--foobarflag", "test"})
	require.Equal(t, ctl.RCOkay, cli.ReturnCode())
	assert.Equal(t, "foobar", cmd)
	assert.Equal(t, "test", *foobarflag)
	assert.Equal(t, time.Minute, *timeout)

	cmd, _ = parse(cli, []string{"test", "foobar", "--foobarflag", "test", "--timeout", "5s"})
	require.Equal(t, ctl.RCOkay, cli.ReturnCode())
	assert.Equal(t, "foobar", cmd)
	assert.Equal(t, 5*time.Second, *timeout)

	cmd, out = parse(cli, []string{"test", "--bogus", "foo"})
	require.Equal(t, ctl.RCUsage, cli.ReturnCode())
	assert.Empty(t, cmd)
	assert.Equal(t, "ERROR: unknown long flag '--bogus'\n", out)

	cmd, out = parse(cli, []string{"test", "bob"})
	require.Equal(t, ctl.RCUsage, cli.ReturnCode())
	assert.Empty(t, cmd)
	assert.Equal(t, "ERROR: expected command but got \"bob\"\n", out)

	cmd, _ = parse(cli, []string{"test"})
	assert.Empty(t, cmd)
	require.Equal(t, ctl.RCUsage, cli.ReturnCode())
}

func Test_Subcommands(t *testing.T) {
	app := ctl.NewApplication("test", "A test command-line tool").Terminate(nil)
	cli := ctl.NewControl(&ctl.ControlDefinition{App: app})

	pre := 0
	cmdFoo := app.Command("foo", "foo description").
		PreAction(func() error { pre++; return nil })

	sub := cmdFoo.Command("bar", "level2 command of foo").
		Action(cli.RegisterAction(func(c ctl.Control, _ interface{}) error {
			c.Printf("bar action executed\n")
			return nil
		}, nil))
	sub.Flag("R2", "some required flag").Envar("ONESHOT_TEST_R2").Required().String()

	cmd, out := parse(cli, []string{"test", "foo", "bar", "--R2", "param1"})
	assert.Equal(t, "foo bar", cmd)
	assert.Equal(t, "bar action executed\n", out)
	assert.Equal(t, 1, pre)

	os.Setenv("ONESHOT_TEST_R2", "env")
	defer os.Unsetenv("ONESHOT_TEST_R2")
	cmd, out = parse(cli, []string{"test", "foo", "bar"})
	assert.Equal(t, "foo bar", cmd)
	assert.Equal(t, "bar action executed\n", out)
}

func Test_Action(t *testing.T) {
	app := ctl.NewApplication("test", "A test command-line tool").Terminate(nil)

	cli := ctl.NewControl(&ctl.ControlDefinition{
		App:       app,
		Output:    os.Stdout,
		ErrOutput: nil,
	})
	assert.Equal(t, os.Stdout, cli.Writer())
	assert.Equal(t, os.Stderr, cli.ErrWriter())

	fooFlags := new(fooActionParams)
	fooCmd := app.Command("foo", "testing Success Action").Action(cli.RegisterAction(successAction, fooFlags))
	fooFlags.fooflag = fooCmd.Flag("fooflag", "fooflag description").Required().String()

	barFlags := new(barActionParams)
	barCmd := app.Command("bar", "testing Failed Action").Action(cli.RegisterAction(failedAction, barFlags))
	barFlags.barflag = barCmd.Flag("barflag", "barflag description").Required().String()

	cmd, out := parse(cli, []string{"test", "foo", "--fooflag", "1"})
	require.Equal(t, ctl.RCOkay, cli.ReturnCode())
	assert.Equal(t, "foo", cmd)
	assert.Equal(t, "SuccessAction output: 1\n", out)

	cmd, out = parse(cli, []string{"test", "bar", "--barflag", "2"})
	require.Equal(t, ctl.RCFailed, cli.ReturnCode())
	assert.Empty(t, cmd)
	assert.Equal(t, "ERROR: FailedAction\n", out)
}

func Test_WriteJSON(t *testing.T) {
	out := bytes.NewBuffer([]byte{})
	val := struct{ Key, Value string }{Key: "n", Value: "v"}

	err := ctl.WriteJSON(out, val)
	require.NoError(t, err)
	assert.Equal(t, "{\n\t\"Key\": \"n\",\n\t\"Value\": \"v\"\n}\n", out.String())

	out.Reset()
	err = ctl.WriteJSON(out, map[string]int{"b": 2, "a": 1})
	require.NoError(t, err)
	assert.Equal(t, "{\n\t\"a\": 1,\n\t\"b\": 2\n}\n", out.String())
}

func successAction(c ctl.Control, f interface{}) error {
	flags := f.(*fooActionParams)
	c.Printf("SuccessAction output: %s\n", *flags.fooflag)
	return nil
}

func failedAction(c ctl.Control, f interface{}) error {
	return errors.New("FailedAction")
}

func parse(cli *ctl.Ctl, args []string) (string, string) {
	outw := &bytes.Buffer{}
	cli.Reset(outw, outw)
	cmd := cli.Parse(args)
	return cmd, outw.String()
}
