package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/bisegni/rowset/pkg/database"
	"github.com/bisegni/rowset/pkg/logging"
	"github.com/bisegni/rowset/pkg/query"
	"github.com/bisegni/rowset/pkg/rowset"
)

const replHelp = `Commands:
  next | prev | first | last     move to a visible row
  abs N | rel N                  absolute / relative move over visible rows
  where EXPR | nofilter          set or clear the filter
  show                           print the current or staged row
  rows                           list the visible rows
  insert                         stage a new row
  set COLUMN VALUE               stage (or update) a column value
  commit | cancel                insert or discard the staged row
  open NAME FILE | use NAME      load another row set / switch to it
  sets                           list loaded row sets
  help | exit`

var errQuit = errors.New("quit")

// session is the state behind one REPL: the loaded row sets and the active one.
type session struct {
	catalog *database.Catalog
	name    string
	cur     *database.MemoryCursor
	rs      *rowset.FilteredRowSet
	out     io.Writer
}

func newSession(out io.Writer) *session {
	return &session{catalog: database.NewCatalog(), out: out}
}

// open loads filename under name and makes it the active row set.
func (s *session) open(name, filename string) error {
	var opts []database.Option
	if ForwardOnly {
		opts = append(opts, database.WithScrollType(database.ForwardOnly))
	}
	cur, err := database.LoadFile(filename, opts...)
	if err != nil {
		return err
	}
	s.catalog.Register(name, cur)
	return s.use(name)
}

func (s *session) use(name string) error {
	cur, err := s.catalog.Get(name)
	if err != nil {
		return err
	}
	s.name, s.cur, s.rs = name, cur, rowset.New(cur)
	return nil
}

func (s *session) setFilter(where string) error {
	p, err := query.Compile(where, s.cur.Columns())
	if err != nil {
		return err
	}
	s.rs.SetFilter(p)
	return nil
}

func (s *session) Close() error {
	return s.catalog.Close()
}

// execute runs one REPL line. It returns errQuit on exit.
func (s *session) execute(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	command, rest := strings.ToLower(fields[0]), strings.TrimSpace(strings.TrimPrefix(line, fields[0]))

	switch command {
	case "exit", "quit":
		return errQuit
	case "help", "?":
		fmt.Fprintln(s.out, replHelp)
		return nil
	case "open":
		if len(fields) != 3 {
			return fmt.Errorf("usage: open NAME FILE")
		}
		return s.report(s.open(fields[1], fields[2]))
	case "use":
		if len(fields) != 2 {
			return fmt.Errorf("usage: use NAME")
		}
		return s.report(s.use(fields[1]))
	case "sets":
		for _, name := range s.catalog.Names() {
			marker := "  "
			if name == s.name {
				marker = "* "
			}
			fmt.Fprintln(s.out, marker+name)
		}
		return nil
	}

	if s.rs == nil {
		return fmt.Errorf("no row set loaded (use: open NAME FILE)")
	}

	switch command {
	case "next", "n":
		return s.move(s.rs.Next())
	case "prev", "previous", "p":
		return s.move(s.rs.Previous())
	case "first":
		return s.move(s.rs.First())
	case "last":
		return s.move(s.rs.Last())
	case "abs", "absolute":
		n, err := intArg(rest)
		if err != nil {
			return err
		}
		return s.move(s.rs.Absolute(n))
	case "rel", "relative":
		n, err := intArg(rest)
		if err != nil {
			return err
		}
		return s.move(s.rs.Relative(n))
	case "where":
		if rest == "" {
			return fmt.Errorf("usage: where EXPR")
		}
		return s.report(s.setFilter(rest))
	case "nofilter":
		s.rs.SetFilter(nil)
		return s.report(nil)
	case "show":
		return s.show()
	case "rows":
		return s.rows()
	case "insert":
		return s.report(s.rs.MoveToInsertRow())
	case "set":
		name, value, ok := strings.Cut(rest, " ")
		if !ok {
			return fmt.Errorf("usage: set COLUMN VALUE")
		}
		if err := stageByName(s.rs, name, parseValue(strings.TrimSpace(value))); err != nil {
			return err
		}
		return s.show()
	case "commit":
		return s.report(s.rs.InsertRow())
	case "cancel":
		return s.report(s.rs.MoveToCurrentRow())
	default:
		return fmt.Errorf("unknown command %q (try help)", command)
	}
}

func (s *session) move(moved bool, err error) error {
	if err != nil {
		return err
	}
	if !moved {
		return s.report(nil)
	}
	return s.show()
}

func (s *session) report(err error) error {
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, renderStatus(s.name, s.rs))
	return nil
}

func (s *session) show() error {
	row, err := s.cur.Current()
	if err != nil {
		return s.report(nil)
	}
	fmt.Fprintln(s.out, renderRow(row))
	return s.report(nil)
}

// rows lists the visible rows and puts the cursor back where it was.
func (s *session) rows() error {
	if s.cur.IsForwardOnly() {
		return fmt.Errorf("rows needs a scrollable cursor")
	}
	if s.rs.OnInsertRow() {
		return fmt.Errorf("commit or cancel the staged row first")
	}

	restore := s.cur.Row()
	afterLast := s.cur.IsAfterLast()
	count := 0
	err := s.rs.Scan(func(row database.Row) error {
		count++
		fmt.Fprintf(s.out, "%s %s\n", mutedStyle.Render(fmt.Sprintf("%4d", s.cur.Row())), formatValue(row.Primitive()))
		return nil
	})
	if err != nil {
		return err
	}

	if !afterLast {
		if err := s.cur.BeforeFirst(); err != nil {
			return err
		}
		for i := 0; i < restore; i++ {
			if _, err := s.cur.Next(); err != nil {
				return err
			}
		}
	}
	fmt.Fprintln(s.out, mutedStyle.Render(fmt.Sprintf("%d visible of %d", count, s.cur.Size())))
	return s.report(nil)
}

func intArg(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("expected an integer, got %q", s)
	}
	return n, nil
}

func datasetName(filename string) string {
	if filename == "-" {
		return "stdin"
	}
	base := filepath.Base(filename)
	if name := strings.TrimSuffix(base, filepath.Ext(base)); name != "" && !strings.ContainsAny(name, " {[") {
		return name
	}
	return "inline"
}

func RunInteractive(filename string) error {
	log := logging.WithComponent("repl")

	s := newSession(os.Stdout)
	defer s.Close()

	name := datasetName(filename)
	if err := s.open(name, filename); err != nil {
		return err
	}
	if Where != "" {
		if err := s.setFilter(Where); err != nil {
			return fmt.Errorf("invalid --where: %w", err)
		}
	}

	log.Info("session started", "set", s.name, "rows", s.cur.Size())
	fmt.Println("Interactive mode enabled. Type 'help' for commands, 'exit' to leave.")
	fmt.Println(renderStatus(s.name, s.rs))

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "rowset> ",
		HistoryFile:     "", // In-memory history for this session
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete: readline.NewPrefixCompleter(
			readline.PcItem("next"), readline.PcItem("prev"),
			readline.PcItem("first"), readline.PcItem("last"),
			readline.PcItem("abs"), readline.PcItem("rel"),
			readline.PcItem("where"), readline.PcItem("nofilter"),
			readline.PcItem("show"), readline.PcItem("rows"),
			readline.PcItem("insert"), readline.PcItem("set"),
			readline.PcItem("commit"), readline.PcItem("cancel"),
			readline.PcItem("open"), readline.PcItem("use"),
			readline.PcItem("sets"), readline.PcItem("help"),
			readline.PcItem("exit"),
		),
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		} else if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		err = s.execute(strings.TrimSpace(line))
		if errors.Is(err, errQuit) {
			break
		}
		if err != nil {
			log.Debug("command failed", "line", line, "error", err)
			fmt.Fprintln(os.Stderr, renderError(err))
		}
	}

	return nil
}
