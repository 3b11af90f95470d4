package usecase

// ChatKind mirrors the platform's chat type string.
type ChatKind string

const (
	ChatPrivate    ChatKind = "private"
	ChatGroup      ChatKind = "group"
	ChatSuperGroup ChatKind = "supergroup"
)

// Event is the distilled inbound update every handler works with:
// where it came from, who sent it and which command it carries.
// Media captions matching the report pattern are canonicalized to the
// "reporte" command before gating.
type Event struct {
	ChatKind ChatKind
	ChatID   int64
	UserID   int64
	Username string
	Command  string // canonical name without the leading slash
}

func (e Event) InPrivate() bool { return e.ChatKind == ChatPrivate }

func (e Event) InGroup() bool {
	return e.ChatKind == ChatGroup || e.ChatKind == ChatSuperGroup
}
