package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"kerek/auth"
	"kerek/domain"
	"kerek/repositories"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

const usage = `relayctl administers a kerek relay store.

  relayctl token    -user alice [-ttl 24h] [-secret ...] [-issuer ...]
  relayctl rooms    create -room r1 -members alice,bob [-db path]
  relayctl rooms    list [-db path]
  relayctl messages -room r1 [-limit 20] [-cursor c] [-db path]
  relayctl presence -user alice [-db path]

Writing commands need the relay to be stopped, badger is single writer.
`

func main() {
	_ = godotenv.Load()
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "relayctl: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(out, usage)
		return nil
	}
	switch args[0] {
	case "token":
		return tokenCmd(args[1:], out)
	case "rooms":
		if len(args) < 2 {
			return fmt.Errorf("rooms needs a subcommand: create or list")
		}
		switch args[1] {
		case "create":
			return createRoomCmd(args[2:], out)
		case "list":
			return listRoomsCmd(args[2:], out)
		}
		return fmt.Errorf("unknown rooms subcommand %q", args[1])
	case "messages":
		return messagesCmd(args[1:], out)
	case "presence":
		return presenceCmd(args[1:], out)
	case "help", "-h", "--help":
		fmt.Fprint(out, usage)
		return nil
	}
	return fmt.Errorf("unknown command %q", args[0])
}

func dbFlag(fs *flag.FlagSet) *string {
	return fs.String("db", lo.CoalesceOrEmpty(os.Getenv("BADGER_FILEPATH"), "./data/badger"), "Path to badger DB")
}

func tokenCmd(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	user := fs.String("user", "", "User the token is issued for")
	ttl := fs.Duration("ttl", 24*time.Hour, "Token lifetime")
	secret := fs.String("secret", os.Getenv("JWT_SECRET"), "HMAC secret shared with the relay")
	issuer := fs.String("issuer", os.Getenv("JWT_ISSUER"), "Issuer claim")
	roles := fs.String("roles", "", "Comma separated roles")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *user == "" || *secret == "" {
		return fmt.Errorf("token needs -user and -secret (or JWT_SECRET)")
	}
	token, err := auth.NewTokenService(*secret, *issuer).
		GenerateToken(domain.UserID(*user), splitList(*roles), *ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, token)
	return nil
}

func createRoomCmd(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("rooms create", flag.ContinueOnError)
	dbPath := dbFlag(fs)
	room := fs.String("room", "", "Room id")
	members := fs.String("members", "", "Comma separated member ids")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *room == "" {
		return fmt.Errorf("rooms create needs -room")
	}
	db, err := openDB(*dbPath, false)
	if err != nil {
		return err
	}
	defer db.Close()

	users := lo.Map(splitList(*members), func(m string, _ int) domain.UserID { return domain.UserID(m) })
	if err := repositories.NewMembershipRepository(db).CreateRoom(context.Background(), domain.RoomID(*room), users); err != nil {
		return err
	}
	fmt.Fprintf(out, "room %s created with %d members\n", *room, len(lo.Uniq(users)))
	return nil
}

func listRoomsCmd(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("rooms list", flag.ContinueOnError)
	dbPath := dbFlag(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	db, err := openDB(*dbPath, true)
	if err != nil {
		return err
	}
	defer db.Close()

	rooms, err := repositories.NewMembershipRepository(db).ListRooms(context.Background())
	if err != nil {
		return err
	}
	table := newTable(out, "Room", "Members", "Created")
	for _, room := range rooms {
		members := lo.Map(room.Members, func(u domain.UserID, _ int) string { return string(u) })
		table.Append([]string{string(room.ID), strings.Join(members, ","), room.CreatedAt.Format(time.RFC3339)})
	}
	table.Render()
	return nil
}

func messagesCmd(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("messages", flag.ContinueOnError)
	dbPath := dbFlag(fs)
	room := fs.String("room", "", "Room id")
	limit := fs.Int("limit", 20, "Maximum number of messages, 0 for all")
	cursor := fs.String("cursor", "", "Cursor printed by a previous page")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *room == "" {
		return fmt.Errorf("messages needs -room")
	}
	db, err := openDB(*dbPath, true)
	if err != nil {
		return err
	}
	defer db.Close()

	log := logs.GetLoggerFromLevel(slog.LevelWarn)
	messages, next, err := repositories.NewMessageRepository(db, log).
		ListMessages(context.Background(), domain.RoomID(*room), lo.EmptyableToPtr(*cursor), *limit)
	if err != nil {
		return err
	}
	table := newTable(out, "Id", "Sender", "Created", "Content")
	for _, m := range messages {
		table.Append([]string{
			m.ID[:8],
			string(m.SenderID),
			time.Unix(m.CreatedAt, 0).UTC().Format("2006-01-02 15:04:05"),
			m.Content,
		})
	}
	table.Render()
	if next != nil && *limit > 0 && len(messages) == *limit {
		fmt.Fprintf(out, "\nnext page: -cursor %s\n", *next)
	}
	return nil
}

func presenceCmd(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("presence", flag.ContinueOnError)
	dbPath := dbFlag(fs)
	user := fs.String("user", "", "User id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *user == "" {
		return fmt.Errorf("presence needs -user")
	}
	db, err := openDB(*dbPath, true)
	if err != nil {
		return err
	}
	defer db.Close()

	status, err := repositories.NewPresenceRepository(db).GetUserStatus(context.Background(), domain.UserID(*user))
	if err != nil {
		return err
	}
	state := "offline"
	if status.Online {
		state = "online"
	}
	since := "never seen"
	if status.UpdatedAt > 0 {
		since = time.Unix(status.UpdatedAt, 0).UTC().Format(time.RFC3339)
	}
	fmt.Fprintf(out, "%s is %s (%s)\n", *user, state, since)
	return nil
}

func newTable(out io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(out)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}

func openDB(path string, readOnly bool) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if readOnly {
		opts = opts.WithReadOnly(true).WithBypassLockGuard(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return db, nil
}

func splitList(value string) []string {
	return lo.Compact(lo.Map(strings.Split(value, ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	}))
}
