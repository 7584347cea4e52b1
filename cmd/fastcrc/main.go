package main

import (
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/bodgit/fastcrc"
	"github.com/bodgit/fastcrc/crc32"
	"github.com/urfave/cli/v2"
)

const defaultDB = "fastcrc.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func newEngine(c *cli.Context) (crc32.Engine, error) {
	a, err := crc32.ParseAlgorithm(c.String("algorithm"))
	if err != nil {
		return nil, err
	}
	conv, err := crc32.ParseConvention(c.String("convention"))
	if err != nil {
		return nil, err
	}
	return crc32.New(a, conv)
}

// newAlgorithm builds the engines compared by the compare command.
var newAlgorithm = crc32.New

func errWriter(c *cli.Context) io.Writer {
	if c.App.ErrWriter != nil {
		return c.App.ErrWriter
	}
	return os.Stderr
}

type input struct {
	name string
	data []byte
}

// readInputs returns the command arguments as buffers, either the files they
// name or the arguments themselves with --text. Without arguments standard
// input is read.
func readInputs(c *cli.Context) ([]input, error) {
	if c.NArg() == 0 {
		b, err := ioutil.ReadAll(io.LimitReader(os.Stdin, fastcrc.MaxFileSize+1))
		if err != nil {
			return nil, err
		}
		if len(b) > fastcrc.MaxFileSize {
			return nil, fmt.Errorf("standard input larger than %d bytes", fastcrc.MaxFileSize)
		}
		return []input{{"-", b}}, nil
	}

	inputs := make([]input, 0, c.NArg())
	for _, arg := range c.Args().Slice() {
		if c.Bool("text") {
			inputs = append(inputs, input{strconv.Quote(arg), []byte(arg)})
			continue
		}
		b, err := ioutil.ReadFile(arg)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, input{arg, b})
	}
	return inputs, nil
}

var textFlag = &cli.BoolFlag{
	Name:    "text",
	Aliases: []string{"t"},
	Usage:   "checksum the arguments rather than the files they name",
}

func sum(c *cli.Context) error {
	engine, err := newEngine(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	inputs, err := readInputs(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	for _, in := range inputs {
		fmt.Fprintf(c.App.Writer, "%0*X  %s\n", crc32.Size<<1, engine.Checksum(in.data), in.name)
	}

	return nil
}

func compare(c *cli.Context) error {
	conv, err := crc32.ParseConvention(c.String("convention"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	inputs, err := readInputs(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	failed := false
	for _, in := range inputs {
		var want uint32
		for i, a := range crc32.Algorithms() {
			engine, err := newAlgorithm(a, conv)
			if err != nil {
				return cli.NewExitError(err, 1)
			}
			sum := engine.Checksum(in.data)
			fmt.Fprintf(c.App.Writer, "%-10s %0*X  %s\n", a, crc32.Size<<1, sum, in.name)

			if i == 0 {
				want = sum
			} else if sum != want {
				fmt.Fprintf(errWriter(c), "%s: %s checksum %0*X does not match %s %0*X\n", in.name, a, crc32.Size<<1, sum, crc32.Algorithms()[0], crc32.Size<<1, want)
				failed = true
			}
		}
	}

	if failed {
		return cli.NewExitError("algorithms disagree", 1)
	}

	return nil
}

func table(c *cli.Context) error {
	conv, err := crc32.ParseConvention(c.String("convention"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	tab := crc32.MakeTable(conv)
	for row := 0; row < 256; row += 8 {
		for i := row; i < row+8; i++ {
			fmt.Fprintf(c.App.Writer, "0x%08X, ", tab.Entry(byte(i)))
		}
		fmt.Fprintf(c.App.Writer, " // %3d [0x%02X .. 0x%02X]\n", row, row, row+7)
	}

	return nil
}

func scan(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	engine, err := newEngine(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	db, err := fastcrc.NewDB(c.String("db"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer db.Close()

	s := fastcrc.New(db, engine, newLogger(c))
	s.SetSelfCheck(c.Bool("self-check"))
	s.SetWorkers(c.Int("workers"))

	if err := s.Scan(c.Args().First()); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func check(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	engine, err := newEngine(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	s := fastcrc.New(nil, engine, newLogger(c))
	s.SetWorkers(c.Int("workers"))

	r, err := s.Check(c.Args().First())
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	for _, file := range r.Mismatched {
		fmt.Fprintf(c.App.Writer, "FAILED  %s\n", file)
	}
	for _, file := range r.Missing {
		fmt.Fprintf(c.App.Writer, "MISSING %s\n", file)
	}

	if !r.OK() {
		return cli.NewExitError(fmt.Sprintf("%d of %d files failed verification", len(r.Mismatched)+len(r.Missing), r.Checked), 1)
	}

	return nil
}

func find(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	crc, err := strconv.ParseUint(c.Args().First(), 16, 32)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	db, err := fastcrc.NewDB(c.String("db"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer db.Close()

	paths, err := db.FindByCRC(uint32(crc))
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	for _, path := range paths {
		fmt.Fprintln(c.App.Writer, path)
	}

	return nil
}

func history(c *cli.Context) error {
	db, err := fastcrc.NewDB(c.String("db"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer db.Close()

	scans, err := db.Scans()
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	for _, s := range scans {
		fmt.Fprintf(c.App.Writer, "%s %s %s/%s %d %s\n", s.ID, s.Started.Format("2006-01-02 15:04:05"), s.Algorithm, s.Convention, s.Files, s.Root)
	}

	return nil
}

func newApp(cwd string) *cli.App {
	app := cli.NewApp()

	app.Name = "fastcrc"
	app.Usage = "CRC-32 checksum utility"
	app.Version = "1.0.0"

	workersFlag := &cli.IntFlag{
		Name:  "workers",
		Value: 10,
		Usage: "number of directories processed concurrently",
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"FASTCRC_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to database",
		},
		&cli.StringFlag{
			Name:    "algorithm",
			Aliases: []string{"a"},
			EnvVars: []string{"FASTCRC_ALGORITHM"},
			Value:   crc32.TableDriven.String(),
			Usage:   "checksum algorithm: bitwise, table, bytewise or nibblewise",
		},
		&cli.StringFlag{
			Name:    "convention",
			Aliases: []string{"c"},
			EnvVars: []string{"FASTCRC_CONVENTION"},
			Value:   crc32.Reflected.String(),
			Usage:   "bit ordering: forward or reflected",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "sum",
			Usage:     "Print the checksum of files, strings or standard input",
			ArgsUsage: "[FILE...]",
			Flags:     []cli.Flag{textFlag},
			Action:    sum,
		},
		{
			Name:      "compare",
			Usage:     "Checksum with every algorithm and check they agree",
			ArgsUsage: "[FILE...]",
			Flags:     []cli.Flag{textFlag},
			Action:    compare,
		},
		{
			Name:   "table",
			Usage:  "Print the lookup table for the selected convention",
			Action: table,
		},
		{
			Name:      "scan",
			Usage:     "Scan filesystem, record checksums and write manifests",
			ArgsUsage: "DIRECTORY",
			Flags: []cli.Flag{
				workersFlag,
				&cli.BoolFlag{
					Name:  "self-check",
					Usage: "verify every checksum with all algorithms",
				},
			},
			Action: scan,
		},
		{
			Name:      "check",
			Usage:     "Verify files against the manifests written by scan",
			ArgsUsage: "DIRECTORY",
			Flags:     []cli.Flag{workersFlag},
			Action:    check,
		},
		{
			Name:      "find",
			Usage:     "List recorded files with the given checksum",
			ArgsUsage: "CHECKSUM",
			Action:    find,
		},
		{
			Name:   "history",
			Usage:  "List recorded scans",
			Action: history,
		},
	}

	return app
}

func main() {
	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	if err := newApp(cwd).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
