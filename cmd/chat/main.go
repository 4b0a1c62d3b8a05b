package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/google/uuid"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"

	"group-chat/api"
	"group-chat/auth"
	"group-chat/conference"
	"group-chat/domain"
	"group-chat/notify"
	"group-chat/screens"
	"group-chat/session"
	"group-chat/timeline"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// The main function manages the OS exit code based on run()'s return.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

// run handles configuration loading, session wiring, and the terminal loop.
func run() (int, error) {
	// 1. Load configuration from environment variables.
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Setup context to handle termination signals (Ctrl+C).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Wire the session and the backend client. The token source keeps the
	// bearer header in lockstep with login/logout.
	sess := session.New()
	httpClient := &http.Client{Timeout: config.RequestTimeout}
	client := api.NewClient(httpClient, config.APIURL, log).WithTokenSource(sess.Token)

	app := &application{
		config:   config,
		log:      log,
		sess:     sess,
		client:   client,
		reader:   bufio.NewScanner(os.Stdin),
		launcher: conference.NewCommandLauncher(config.ConferenceCmd, log),
	}

	// 4. Screens re-render on session changes; observers run synchronously.
	sess.Subscribe(func() {
		if user, ok := sess.Current(); ok {
			app.printf("Signed in as %s <%s>", user.DisplayName(), user.Email)
			return
		}
		app.printf("Signed out")
	})

	if err := app.loop(ctx); err != nil {
		return exitRuntime, err
	}
	return exitOK, nil
}

type application struct {
	config   Config
	log      *slog.Logger
	sess     *session.Session
	client   api.IChatService
	reader   *bufio.Scanner
	launcher conference.ILauncher
}

func (a *application) printf(format string, args ...any) {
	fmt.Printf(format+"\n", args...)
}

// printErr surfaces a failed action without aborting the loop; no error is
// fatal to the process.
func (a *application) printErr(err error) {
	message := fmt.Sprintf("✗ %v", err)
	if a.config.Colours {
		message = color.New(color.FgRed).Render(message)
	}
	fmt.Println(message)
}

func (a *application) prompt(label string) (string, bool) {
	fmt.Print(label)
	if !a.reader.Scan() {
		return "", false
	}
	return strings.TrimSpace(a.reader.Text()), true
}

// loop drives the two navigation branches: unauthenticated (signin/signup)
// and authenticated (groups, chat, video).
func (a *application) loop(ctx context.Context) error {
	a.printf("group-chat client — %s", a.config.APIURL)
	for ctx.Err() == nil {
		if _, ok := a.sess.Current(); !ok {
			if done := a.unauthenticated(ctx); done {
				return nil
			}
			continue
		}
		if done := a.home(ctx); done {
			return nil
		}
	}
	return nil
}

func (a *application) unauthenticated(ctx context.Context) bool {
	input, ok := a.prompt("[signin | signup | quit] > ")
	if !ok {
		return true
	}
	switch input {
	case "signin":
		a.signIn(ctx)
	case "signup":
		a.signUp(ctx)
	case "quit":
		return true
	case "":
	default:
		a.printf("Unknown command %q", input)
	}
	return false
}

func (a *application) signIn(ctx context.Context) {
	email, ok := a.prompt("email: ")
	if !ok {
		return
	}
	password, ok := a.prompt("password: ")
	if !ok {
		return
	}
	if err := screens.SignIn(ctx, a.client, a.sess, email, password); err != nil {
		a.printErr(err)
		return
	}
	a.registerForPush(ctx)
}

func (a *application) signUp(ctx context.Context) {
	request := auth.SignUpRequest{}
	fields := []struct {
		label string
		dest  *string
	}{
		{"first name: ", &request.FirstName},
		{"last name: ", &request.LastName},
		{"mobile number: ", &request.MobileNumber},
		{"email: ", &request.Email},
		{"password: ", &request.Password},
	}
	for _, field := range fields {
		value, ok := a.prompt(field.label)
		if !ok {
			return
		}
		*field.dest = value
	}
	if err := screens.SignUp(ctx, a.client, a.sess, request); err != nil {
		a.printErr(err)
		return
	}
	a.registerForPush(ctx)
}

// registerForPush acquires the device token after login. A denial is
// surfaced and forgotten; nothing downstream consumes the token yet.
func (a *application) registerForPush(ctx context.Context) {
	if _, err := notify.Register(ctx, &promptTokenProvider{app: a}, a.log); err != nil {
		a.printErr(err)
	}
}

func (a *application) home(ctx context.Context) bool {
	homeScreen := screens.NewHomeScreen(a.client, a.sess, a.log)
	if err := homeScreen.Refresh(ctx); err != nil {
		a.printErr(err)
	}
	a.renderGroups(homeScreen.Groups())

	input, ok := a.prompt("[open <n> | create | groups | video <room> [audio] | logout | quit] > ")
	if !ok {
		return true
	}
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return false
	}

	switch parts[0] {
	case "open":
		if len(parts) < 2 {
			a.printf("Usage: open <n>")
			return false
		}
		index, err := strconv.Atoi(parts[1])
		if err != nil || index < 1 || index > len(homeScreen.Groups()) {
			a.printf("No group %q", parts[1])
			return false
		}
		a.chat(ctx, homeScreen.Groups()[index-1])
	case "create":
		a.createGroup(ctx)
	case "groups":
		// Next iteration refreshes and re-renders.
	case "video":
		if len(parts) < 2 {
			a.printf("Usage: video <room> [audio]")
			return false
		}
		a.video(ctx, parts[1], len(parts) > 2 && parts[2] == "audio")
	case "logout":
		a.sess.Logout()
	case "quit":
		return true
	default:
		a.printf("Unknown command %q", parts[0])
	}
	return false
}

func (a *application) renderGroups(groups []domain.Group) {
	if len(groups) == 0 {
		a.printf("No groups found.")
		return
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"#", "Group", "Created by"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for i, group := range groups {
		table.Append([]string{strconv.Itoa(i + 1), group.Name, group.CreatedBy})
	}
	table.Render()
}

func (a *application) createGroup(ctx context.Context) {
	screen := screens.NewCreateGroupScreen(a.client, a.sess, a.log)
	if err := screen.LoadUsers(ctx); err != nil {
		a.printErr(err)
		return
	}
	for i, user := range screen.Users() {
		a.printf("%d) %s <%s>", i+1, user.DisplayName(), user.Email)
	}
	selection, ok := a.prompt("members (space-separated numbers, empty for none): ")
	if !ok {
		return
	}
	for _, raw := range strings.Fields(selection) {
		index, err := strconv.Atoi(raw)
		if err != nil || index < 1 || index > len(screen.Users()) {
			a.printf("Skipping unknown member %q", raw)
			continue
		}
		screen.Toggle(screen.Users()[index-1].ID)
	}
	name, ok := a.prompt("group name: ")
	if !ok {
		return
	}
	group, err := screen.Submit(ctx, name)
	if err != nil {
		a.printErr(err)
		return
	}
	a.printf("Group %q created ✔", group.Name)
}

func (a *application) chat(ctx context.Context, group domain.Group) {
	screen := screens.NewChatScreen(a.client, a.sess, a.log, group.ID, group.Name)
	if err := screen.Refresh(ctx); err != nil {
		a.printErr(err)
	}
	a.renderChat(screen)

	for {
		input, ok := a.prompt(fmt.Sprintf("%s > ", group.Name))
		if !ok {
			return
		}
		switch {
		case input == "/back":
			return
		case input == "/refresh":
			if err := screen.Refresh(ctx); err != nil {
				a.printErr(err)
			}
			a.renderChat(screen)
		case input == "/video" || input == "/video audio":
			a.video(ctx, group.Name, strings.HasSuffix(input, "audio"))
		case input == "":
		default:
			if _, err := screen.Send(ctx, input); err != nil {
				a.printErr(err)
				continue
			}
			a.renderChat(screen)
		}
	}
}

// renderChat prints the bucketed timeline oldest-first, walking the
// newest-first presentation backwards like a bottom-anchored list view.
func (a *application) renderChat(screen *screens.ChatScreen) {
	items, skipped := screen.Items()
	if len(items) == 0 {
		a.printf("No messages yet.")
		return
	}

	user, _ := a.sess.Current()
	for i := len(items) - 1; i >= 0; i-- {
		item := items[i]
		switch item.Kind {
		case timeline.KindDateSeparator:
			a.printf("---- %s ----", item.Label)
		case timeline.KindMessage:
			line := fmt.Sprintf("[%s] %s: %s", item.LocalTime, item.Message.SenderEmail, item.Message.Body)
			if a.config.Colours && item.Message.SenderEmail == user.Email {
				line = color.New(color.FgGreen).Render(line)
			}
			a.printf("%s", line)
		}
	}
	if skipped > 0 {
		a.printf("(%d malformed messages skipped)", skipped)
	}
}

func (a *application) video(ctx context.Context, room string, audioOnly bool) {
	user, ok := a.sess.Current()
	if !ok {
		a.printf("Sign in before starting a call.")
		return
	}
	err := a.launcher.Launch(ctx, conference.Options{
		Room:        room,
		DisplayName: user.DisplayName(),
		AudioOnly:   audioOnly,
	})
	if err != nil {
		// A failed launch aborts the call and returns to the screen.
		a.printErr(err)
	}
}

// promptTokenProvider implements the platform notification service on a
// terminal: the permission dialog is a y/N prompt and the device token is
// derived from the host plus a random component.
type promptTokenProvider struct {
	app    *application
	status notify.PermissionStatus
}

func (p *promptTokenProvider) Permission(context.Context) (notify.PermissionStatus, error) {
	return p.status, nil
}

func (p *promptTokenProvider) RequestPermission(context.Context) (notify.PermissionStatus, error) {
	answer, ok := p.app.prompt("Allow notifications? [y/N] ")
	if ok && strings.EqualFold(answer, "y") {
		p.status = notify.PermissionGranted
	} else {
		p.status = notify.PermissionDenied
	}
	return p.status, nil
}

func (p *promptTokenProvider) DeviceToken(context.Context) (string, error) {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown-host"
	}
	return fmt.Sprintf("%s-%s", hostname, uuid.NewString()), nil
}
