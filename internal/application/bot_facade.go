package application

import (
	"context"
	"fmt"

	"telegram-community-bot/internal/domain/model"
	"telegram-community-bot/internal/usecase"
)

const helpText = `Comandos:
/start - registro
/solicitar_activacion - pide tu activación (privado)
/reporte <texto> - envía un reporte al grupo (privado)
/clave <contraseña> - activa el grupo (admins)
/activar <user_id> - activa a un usuario (admins)
/eco <minutos> <mensaje> - eco periódico (admins)
/eco_stop - detiene el eco (admins)
/cadena <mensaje> - mensaje a todos los usuarios (admins)`

// BotFacade composes usecases into high-level bot commands. Facade
// methods return strings so the Telegram adapter just forwards them to
// the chat; the report path is the exception because the usecase sends
// its own confirmation to learn the message id.
type BotFacade struct {
	Access       usecase.AccessUseCase
	Registration usecase.RegistrationUseCase
	Activation   usecase.ActivationUseCase
	Echo         usecase.EchoUseCase
	Report       usecase.ReportUseCase
	Broadcast    usecase.BroadcastUseCase
}

func NewBotFacade(
	access usecase.AccessUseCase,
	registration usecase.RegistrationUseCase,
	activation usecase.ActivationUseCase,
	echo usecase.EchoUseCase,
	report usecase.ReportUseCase,
	broadcast usecase.BroadcastUseCase,
) *BotFacade {
	return &BotFacade{
		Access:       access,
		Registration: registration,
		Activation:   activation,
		Echo:         echo,
		Report:       report,
		Broadcast:    broadcast,
	}
}

// Gate runs the two-stage activation gate for one event.
func (b *BotFacade) Gate(ctx context.Context, ev usecase.Event) (*usecase.Denial, error) {
	return b.Access.Check(ctx, ev)
}

func (b *BotFacade) HandleStart(ctx context.Context, ev usecase.Event) (string, error) {
	if ev.InPrivate() {
		return b.Registration.StartPrivate(ctx, ev.UserID, ev.Username)
	}
	// group /start greets without registering; joining is what registers
	return "Soy YummyEcho, repito los mensajes para ayudarte.", nil
}

func (b *BotFacade) HandleHelp(ctx context.Context, ev usecase.Event) (string, error) {
	return helpText, nil
}

// HandleBotJoinedGroup registers the group the bot was just added to.
func (b *BotFacade) HandleBotJoinedGroup(ctx context.Context, chatID int64) (string, error) {
	if _, err := b.Registration.RegisterGroup(ctx, chatID); err != nil {
		return "", err
	}
	return "¡Hola a todos! Gracias por añadirme. He guardado el ID de este grupo para mis tareas programadas.", nil
}

// HandleGroupID re-registers the current group as report destination.
func (b *BotFacade) HandleGroupID(ctx context.Context, ev usecase.Event) (string, error) {
	g, err := b.Registration.RegisterGroup(ctx, ev.ChatID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("ID de grupo guardado: %d", g.ChatID), nil
}

func (b *BotFacade) HandleRequestActivation(ctx context.Context, ev usecase.Event) (string, error) {
	return b.Activation.RequestActivation(ctx, ev)
}

func (b *BotFacade) HandleActivateGroup(ctx context.Context, ev usecase.Event, secret string) (string, error) {
	return b.Activation.ActivateGroup(ctx, ev, secret)
}

func (b *BotFacade) HandleActivateUser(ctx context.Context, ev usecase.Event, rawID string) (string, error) {
	return b.Activation.ActivateUser(ctx, ev, rawID)
}

func (b *BotFacade) HandleEchoStart(ctx context.Context, ev usecase.Event, rawMinutes, message string) (string, error) {
	return b.Echo.Start(ctx, ev, rawMinutes, message)
}

func (b *BotFacade) HandleEchoStop(ctx context.Context, ev usecase.Event) (string, error) {
	return b.Echo.Stop(ctx, ev)
}

func (b *BotFacade) HandleBroadcast(ctx context.Context, ev usecase.Event, message string) (string, error) {
	return b.Broadcast.Broadcast(ctx, ev, message)
}

// HandleReport relays a report; the reply may be empty when the
// usecase already confirmed to the sender itself.
func (b *BotFacade) HandleReport(ctx context.Context, rep *model.Report) (string, error) {
	return b.Report.Submit(ctx, rep)
}
