package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go MonthCal"
	AppID             = "com.github.tartampluch.go-monthcal"
	KeyringService    = "com.github.tartampluch.go-monthcal"
	KeyringFeedUser   = "feed-token"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
	IconFile          = "Icon.png"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	// Used for logs and the events file.
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion      = "version"
	FlagDebug        = "debug"
	FlagDataDir      = "data-dir"
	FlagNoFeed       = "no-feed"
	FlagDescVersion  = "Show application version and exit"
	FlagDescDebug    = "Enable debug logging to stdout"
	FlagDescDataDir  = "Store events as JSON files in this directory instead of app preferences"
	FlagDescNoFeed   = "Do not serve the iCalendar feed on localhost"
	MsgVersionOutput = "%s version %s (%s/%s)\n"
)

// -----------------------------------------------------------------------------
// Storage
// -----------------------------------------------------------------------------

const (
	// EventsBlobKey is the single durable key holding every event list.
	EventsBlobKey = "calendarEvents"

	// DateKeyLayout is the canonical DateKey layout (YYYY-MM-DD).
	DateKeyLayout = "2006-01-02"

	BlobFileExt = ".json"

	// Store kinds, as logged at startup.
	StoreKindPreferences = "preferences"
	StoreKindFile        = "file"
	TmpSuffix   = ".tmp"

	// Embedded locale files: locales/active.<lang>.json
	LocalesDir   = "locales"
	LocalePrefix = "active."
	LocaleSuffix = ".json"
)

// -----------------------------------------------------------------------------
// UI Constants & Preferences
// -----------------------------------------------------------------------------

const (
	MainWindowWidth     = 560
	MainWindowHeight    = 520
	EventsWindowWidth   = 420
	EventsWindowHeight  = 360
	SettingsWindowWidth = 460
	PromptDialogWidth   = 320
	GridColumns         = 7
	LayoutColumnsDouble = 2

	// Preference Keys
	PrefLanguage    = "language"
	PrefWeekStart   = "week_start"
	PrefServerPort  = "server_port"
	PrefFeedEnabled = "feed_enabled"
	PrefLastRun     = "last_run_version"

	// Navigation glyphs
	NavPrev        = "❮"
	NavNext        = "❯"
	EventIndicator = "•"
)

// SupportedLanguages defines the list of available UI languages (ISO 639-1).
var SupportedLanguages = []string{"en", "fr"}

// Week start preference values.
const (
	WeekStartAuto     = "auto"
	WeekStartSunday   = "sunday"
	WeekStartMonday   = "monday"
	WeekStartSaturday = "saturday"
)

// WeekStartOptions lists the accepted week start preference values in display order.
var WeekStartOptions = []string{WeekStartAuto, WeekStartSunday, WeekStartMonday, WeekStartSaturday}

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyWinTitle       = "win_title"
	TKeyWinSettings    = "win_settings_title"
	TKeyLblToday       = "lbl_today"         // Requires Date
	TKeyLblMonthYear   = "lbl_month_year"    // Requires Month, Year
	TKeyLblEventsOn    = "lbl_events_on"     // Requires Date
	TKeyFormatDate     = "format_date_short" // Go layout of the host's short date
	TKeyPromptNew      = "prompt_new_event"
	TKeyPromptEdit     = "prompt_edit_event"
	TKeyConfirmDelete  = "confirm_delete_event"
	TKeyBtnAdd         = "btn_add_event"
	TKeyBtnEdit        = "btn_edit"
	TKeyBtnDelete      = "btn_delete"
	TKeyBtnClose       = "btn_close"
	TKeyBtnOK          = "btn_ok"
	TKeyBtnSave        = "btn_save"
	TKeyBtnCancel      = "btn_cancel"
	TKeyBtnYes         = "btn_yes"
	TKeyBtnNo          = "btn_no"
	TKeyBtnSettings    = "btn_settings"
	TKeyLblNoEvents    = "lbl_no_events"
	TKeyLblLanguage    = "lbl_language"
	TKeyHelpLanguage   = "help_language"
	TKeyLblWeekStart   = "lbl_week_start"
	TKeyHelpWeekStart  = "help_week_start"
	TKeyLblPort        = "lbl_server_port"
	TKeyHelpPort       = "help_port"
	TKeyLblFeed        = "lbl_feed_enabled"
	TKeyLblFooter      = "lbl_footer"
	TKeyWeekStartAuto  = "week_start_auto"
	TKeyWeekStartSun   = "week_start_sunday"
	TKeyWeekStartMon   = "week_start_monday"
	TKeyWeekStartSat   = "week_start_saturday"
	TKeyErrPortReq     = "err_port_required"
	TKeyErrPortNum     = "err_port_number"
	TKeyErrPortRange   = "err_port_range"
	TKeyMonthPrefix    = "month_"         // month_1 .. month_12
	TKeyWeekdayPrefix  = "weekday_short_" // weekday_short_0 (Sunday) .. weekday_short_6
	TKeyFeedURL        = "lbl_feed_url"   // Requires URL
	TKeyFeedDisabled   = "lbl_feed_disabled"
	TKeyBtnCopyFeedURL = "btn_copy_feed_url"
)

// -----------------------------------------------------------------------------
// Default Values
// -----------------------------------------------------------------------------

const (
	DefaultPort      = "18081"
	DefaultLanguage  = "en"
	DefaultWeekStart = WeekStartAuto
	MidnightSpec     = "@midnight"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar
// -----------------------------------------------------------------------------

const (
	ICalVersion = "2.0"
	ICalProdid  = "-//Go MonthCal//Feed//EN"
	ICalCalName = "MonthCal"
	ICalMethod  = "PUBLISH"
	ICalScale   = "GREGORIAN"
	ICalDomain  = "gomonthcal"

	PropUID        = "UID"
	PropSummary    = "SUMMARY"
	PropDTStart    = "DTSTART"
	PropDTEnd      = "DTEND"
	PropDTStamp    = "DTSTAMP"
	PropRefresh    = "REFRESH-INTERVAL"
	PropVersion    = "VERSION"
	PropProdid     = "PRODID"
	PropXWRCalName = "X-WR-CALNAME"
	PropCalScale   = "CALSCALE"
	PropMethod     = "METHOD"

	DefaultICalRefresh = 1 * time.Hour

	// StubVCalendar is the minimal valid iCalendar object served when there are no events.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"

	// UID Generation
	UIDSalt         = "go-monthcal-v1-"
	UIDHashLength   = 16
	FormatHashInput = "%s|%d|%s|%s"
	FormatUID       = "%s@%s"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	ShutdownTimeout    = 5 * time.Second
	ServerReadTimeout  = 10 * time.Second
	ServerWriteTimeout = 30 * time.Second
	ServerIdleTimeout  = 60 * time.Second
	RetryAfterSeconds  = "10"
	AllowedMethods     = "GET, HEAD"
	RouteRoot          = "/"
	AddrSeparator      = ":"
	QueryToken         = "token"
	FormatFeedURL      = "http://%s:%s/?%s=%s"

	MinPort = 1
	MaxPort = 65535

	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrStorageRead     = "storage read failed"
	ErrStorageWrite    = "storage write failed"
	ErrBlobNotFound    = "blob not found"
	ErrBlobDecode      = "failed to decode events blob"
	ErrBlobEncode      = "failed to encode events blob"
	ErrIndexRange      = "event index out of range"
	ErrServerStartup   = "server startup failed"
	ErrServerShutdown  = "server shutdown failed"
	ErrPortRequired    = "server port is required"
	ErrPortNumber      = "server port must be a number"
	ErrPortRange       = "server port must be between 1 and 65535"
	ErrInvalidPortPref = "stored feed port is invalid, using default"
	ErrICalEncode      = "failed to encode iCalendar data"
	ErrLogFile         = "failed to open log file"
	ErrCacheDir        = "could not determine user cache dir"
	ErrCreateDir       = "could not create app directory"
	ErrAppFailed       = "application failed unexpectedly"
	ErrWriteResp       = "failed to write response body"
	ErrLocalesAccess   = "failed to access embedded locales"
	ErrLocaleLoad      = "failed to load locale file"
	ErrLocNotInit      = "localizer not initialized"
	ErrKeyring         = "keyring unavailable, feed disabled"
	ErrSchedule        = "failed to schedule midnight rollover"
	ErrFeedRender      = "failed to render feed"
	ErrUnknownWeekday  = "unknown week start"
	ErrEventMutation   = "event mutation rejected"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Calendar initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
	HTTPMsgForbidden    = "Forbidden"
)

// -----------------------------------------------------------------------------
// Fallbacks & Log Messages
// -----------------------------------------------------------------------------

const (
	FallbackToday      = "Today: %s"
	FallbackEventsOn   = "Events on %s"
	FallbackMonthYear  = "%s %d"
	FallbackPromptNew  = "Enter new event:"
	FallbackPromptEdit = "Edit event:"
	FallbackConfirmDel = "Delete this event?"
	FallbackNoEvents   = "No events"
	FallbackDateFormat = "01/02/2006"
	FallbackBtnAdd     = "Add event"
	FallbackBtnClose   = "Close"
	FallbackBtnOK      = "OK"
	FallbackBtnCancel  = "Cancel"
	FallbackBtnYes     = "Yes"
	FallbackBtnNo      = "No"
	TitleStartupError  = "Startup Error"
	MsgPortBusy        = "Port %s is busy or restricted. The calendar feed is unavailable."

	MsgAppStop         = "Application stopped gracefully"
	MsgCtxCancel       = "Context cancelled, shutting down UI"
	MsgAppStarting     = "Starting application"
	MsgLogWarning      = "Warning: %s at %s: %v\n"
	MsgEventsLoaded    = "Events loaded"
	MsgEventsEmpty     = "No stored events, starting empty"
	MsgEventsSaved     = "Events saved"
	MsgEventAdded      = "Event added"
	MsgEventUpdated    = "Event updated"
	MsgEventRemoved    = "Event removed"
	MsgPromptCancel    = "Prompt cancelled or empty, nothing to do"
	MsgDeleteDeclined  = "Delete not confirmed"
	MsgNavigate        = "Month changed"
	MsgDaySelected     = "Day selected"
	MsgModalClosed     = "Events dialog closed"
	MsgRollover        = "Day changed, refreshing today"
	MsgServerListen    = "HTTP server listening"
	MsgServerStop      = "Shutting down HTTP server..."
	MsgCacheUpdated    = "Feed cache updated"
	MsgFeedToken       = "Feed token created"
	MsgFeedRendered    = "Feed rendered"
	MsgLocaleSkip      = "Skipping non-locale file"
	MsgLocaleBadName   = "Skipping malformed locale filename"
	MsgLocaleLoaded    = "Locale loaded successfully"
	MsgTransMissing    = "Missing translation key"
	MsgTokenRejected   = "Feed request with invalid token"
	MsgWorkerStart     = "Midnight rollover scheduled"
	MsgWorkerStop      = "Midnight rollover stopped"
	MsgWindowOpen      = "Opening events window"
	MsgDialogAbandoned = "Events window closed, prompt cancelled"
	MsgSettingsOpen    = "Opening settings window"
	MsgSettingsFocus   = "Settings window already open, requesting focus"
	MsgSettingsSaved   = "Saving preferences"
	MsgFeedDisabled    = "Calendar feed disabled"
	MsgStoreSelected   = "Event storage selected"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyDateKey   = "date_key"
	LogKeyIndex     = "index"
	LogKeyMonth     = "month"
	LogKeyCount     = "count"
	LogKeyDays      = "days"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyStore     = "store"
	LogKeyWeekStart = "week_start"
	LogKeyRemote    = "remote"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyCommit  = "commit"
	LogKeyDate    = "build_date"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompUI         = "ui"
	CompUISet      = "ui_settings"
	CompStore      = "store"
	CompController = "controller"
	CompExport     = "export"
	CompServer     = "server"
	CompWorker     = "worker"
	CompMain       = "main"
	CompI18n       = "i18n"
)
