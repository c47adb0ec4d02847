package handlers

import (
	"context"

	"github.com/mymmrac/telego"

	"promobot/internal/auth"
	"promobot/internal/database"
	"promobot/internal/leads"
	"promobot/internal/posting"
	"promobot/internal/scheduler"
	"promobot/internal/sessions"
	"promobot/internal/settings"
	telegoapi "promobot/pkg/telegoapi"
)

// Callback data prefixes. Data is colon-separated: "lead:take:<hex>".
const (
	CallbackLeadTake   = "lead:take"
	CallbackLeadAnswer = "lead:answer"
	CallbackBindPick   = "bind:pick"
)

// listLimit caps the /history, /leads and bind candidate listings.
const listLimit = 20

// Command maps a command string to its description message id and handler.
type Command struct {
	Command     string
	Description string // message id, localized for /help and SetMyCommands
	AdminOnly   bool
	OwnerOnly   bool
	Handler     func(ctx context.Context, message telego.Message, args string) error
}

// MessageHandler routes incoming Telegram updates to the state-management
// core: content and schedule administration, posting control, and lead intake.
type MessageHandler struct {
	bot telegoapi.BotAPI

	authChecker *auth.Checker
	contentRepo database.ContentRepository
	schedules   database.ScheduleRepository
	adminRepo   database.AdminRepository
	postLog     database.PostLogRepository
	settings    *settings.Store
	dispatcher  *posting.Dispatcher
	leadService *leads.Service
	sessions    *sessions.Store
	runner      *scheduler.Runner

	commands []Command
}

// Deps holds the dependencies required by the MessageHandler.
type Deps struct {
	Bot         telegoapi.BotAPI
	AuthChecker *auth.Checker
	ContentRepo database.ContentRepository
	Schedules   database.ScheduleRepository
	AdminRepo   database.AdminRepository
	PostLog     database.PostLogRepository
	Settings    *settings.Store
	Dispatcher  *posting.Dispatcher
	LeadService *leads.Service
	Sessions    *sessions.Store
	Runner      *scheduler.Runner
}

// NewMessageHandler creates the handler and registers its command table.
func NewMessageHandler(deps Deps) *MessageHandler {
	h := &MessageHandler{
		bot:         deps.Bot,
		authChecker: deps.AuthChecker,
		contentRepo: deps.ContentRepo,
		schedules:   deps.Schedules,
		adminRepo:   deps.AdminRepo,
		postLog:     deps.PostLog,
		settings:    deps.Settings,
		dispatcher:  deps.Dispatcher,
		leadService: deps.LeadService,
		sessions:    deps.Sessions,
		runner:      deps.Runner,
	}

	h.commands = []Command{
		{Command: "start", Description: "CmdStartDescription", Handler: h.HandleStart},
		{Command: "help", Description: "CmdHelpDescription", Handler: h.HandleHelp},

		{Command: "newpost", AdminOnly: true, Handler: h.HandleNewPost},
		{Command: "history", AdminOnly: true, Handler: h.HandleHistory},
		{Command: "delete", AdminOnly: true, Handler: h.HandleDelete},
		{Command: "restore", AdminOnly: true, Handler: h.HandleRestore},
		{Command: "toggle", AdminOnly: true, Handler: h.HandleToggle},
		{Command: "times", AdminOnly: true, Handler: h.HandleTimes},
		{Command: "addtime", AdminOnly: true, Handler: h.HandleAddTime},
		{Command: "deltime", AdminOnly: true, Handler: h.HandleDelTime},
		{Command: "toggletime", AdminOnly: true, Handler: h.HandleToggleTime},
		{Command: "bind", AdminOnly: true, Handler: h.HandleBind},
		{Command: "unbind", AdminOnly: true, Handler: h.HandleUnbind},
		{Command: "postnow", AdminOnly: true, Handler: h.HandlePostNow},
		{Command: "posting", AdminOnly: true, Handler: h.HandlePosting},
		{Command: "settarget", AdminOnly: true, Handler: h.HandleSetTarget},
		{Command: "setadmingroup", AdminOnly: true, Handler: h.HandleSetAdminGroup},
		{Command: "setbanner", AdminOnly: true, Handler: h.HandleSetBanner},
		{Command: "leads", AdminOnly: true, Handler: h.HandleLeads},

		{Command: "addadmin", OwnerOnly: true, Handler: h.HandleAddAdmin},
		{Command: "deladmin", OwnerOnly: true, Handler: h.HandleDelAdmin},
		{Command: "admins", OwnerOnly: true, Handler: h.HandleAdmins},
	}
	return h
}
