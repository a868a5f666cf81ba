// Package dispatch routes authenticated interactions by kind and command
// name to feature handlers, gating commands behind the per-user quota and
// guarding handler execution so a fault never escapes as a non-200.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/bwmarrin/discordgo"

	"github.com/FlashGalatine/xivdyetools-discord-worker-sub001/internal/discord"
	"github.com/FlashGalatine/xivdyetools-discord-worker-sub001/internal/outcome"
	"github.com/FlashGalatine/xivdyetools-discord-worker-sub001/internal/ratelimit"
)

// ErrUnknownInteraction marks an interaction kind outside the known set.
// This is the only condition that produces a non-200 once authentication
// has already passed.
var ErrUnknownInteraction = errors.New("unknown interaction type")

// CommandHandler executes one slash command.
type CommandHandler interface {
	Name() string
	Handle(ctx context.Context, i *discordgo.Interaction) (*discordgo.InteractionResponse, error)
}

// ComponentHandler executes a message component interaction.
type ComponentHandler interface {
	Handle(ctx context.Context, i *discordgo.Interaction) (*discordgo.InteractionResponse, error)
}

// ModalRoute pairs a custom-ID predicate with its submit handler. Routes
// are tried in order; custom IDs are kept prefix-disjoint so order never
// actually decides between overlapping matches.
type ModalRoute struct {
	Match  func(customID string) bool
	Handle func(ctx context.Context, i *discordgo.Interaction) (*discordgo.InteractionResponse, error)
}

// Resolver produces autocomplete choices. Satisfied by
// autocomplete.Resolver.
type Resolver interface {
	Resolve(ctx context.Context, i *discordgo.Interaction) *discordgo.InteractionResponse
}

// Dispatcher is the interaction state machine.
type Dispatcher struct {
	commands map[string]CommandHandler
	exempt   map[string]struct{}
	limiter  *ratelimit.Limiter
	resolver Resolver
	buttons  ComponentHandler
	modals   []ModalRoute
	recorder outcome.Recorder
	logger   *slog.Logger
}

// Config wires a Dispatcher.
type Config struct {
	Commands []CommandHandler
	// Exempt lists utility commands that skip the rate-limit gate.
	Exempt   []string
	Limiter  *ratelimit.Limiter
	Resolver Resolver
	Buttons  ComponentHandler
	Modals   []ModalRoute
	Recorder outcome.Recorder
	Logger   *slog.Logger
}

// New creates a Dispatcher from its configuration.
func New(cfg Config) *Dispatcher {
	commands := make(map[string]CommandHandler, len(cfg.Commands))
	for _, h := range cfg.Commands {
		commands[h.Name()] = h
	}
	exempt := make(map[string]struct{}, len(cfg.Exempt))
	for _, name := range cfg.Exempt {
		exempt[name] = struct{}{}
	}
	return &Dispatcher{
		commands: commands,
		exempt:   exempt,
		limiter:  cfg.Limiter,
		resolver: cfg.Resolver,
		buttons:  cfg.Buttons,
		modals:   cfg.Modals,
		recorder: cfg.Recorder,
		logger:   cfg.Logger,
	}
}

// Dispatch routes one authenticated interaction. A non-nil error means the
// interaction kind itself was unrecognized; every other failure is folded
// into an in-band response.
func (d *Dispatcher) Dispatch(ctx context.Context, i *discordgo.Interaction) (*discordgo.InteractionResponse, error) {
	switch i.Type {
	case discordgo.InteractionPing:
		return discord.Pong(), nil

	case discordgo.InteractionApplicationCommand:
		return d.dispatchCommand(ctx, i), nil

	case discordgo.InteractionApplicationCommandAutocomplete:
		// Frequent and low-stakes: no rate limit, no outcome.
		return d.resolver.Resolve(ctx, i), nil

	case discordgo.InteractionMessageComponent:
		return d.dispatchComponent(ctx, i), nil

	case discordgo.InteractionModalSubmit:
		return d.dispatchModal(ctx, i), nil

	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownInteraction, i.Type)
	}
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, i *discordgo.Interaction) *discordgo.InteractionResponse {
	name := i.ApplicationCommandData().Name
	userID := discord.InvokerID(i)

	handler, ok := d.commands[name]
	if !ok {
		// Expected state for partially-rolled-out commands, not an error.
		d.logger.Info("command not implemented", "command", name, "user_id", userID)
		return discord.Ephemeral("This command isn't available yet.")
	}

	if _, skip := d.exempt[name]; !skip {
		res := d.limiter.Check(ctx, userID, name)
		if res.KVError {
			d.logger.Warn("rate limit store unavailable", "command", name, "user_id", userID)
		}
		if !res.Allowed {
			// Short-circuit: no handler, no outcome.
			return discord.Ephemeral(fmt.Sprintf(
				"You're doing that too fast. Try again in %d seconds.", res.RetryAfter))
		}
	}

	resp, err := d.invokeGuarded(ctx, handler, i)
	if err != nil {
		d.logger.Error("command handler failed", "command", name, "user_id", userID, "error", err)
		d.recorder.Record(ctx, outcome.Outcome{
			Command: name, UserID: userID, GuildID: i.GuildID, Success: false,
		})
		return discord.Ephemeral("Something went wrong running that command.")
	}

	// A handler that returns without error is a protocol-level success,
	// even if its own message reports a partial failure.
	d.recorder.Record(ctx, outcome.Outcome{
		Command: name, UserID: userID, GuildID: i.GuildID, Success: true,
	})
	return resp
}

// invokeGuarded runs a handler, converting panics into errors so a handler
// fault can never take down the request path.
func (d *Dispatcher) invokeGuarded(ctx context.Context, h CommandHandler, i *discordgo.Interaction) (resp *discordgo.InteractionResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp = nil
			err = fmt.Errorf("panic in handler: %v\n%s", r, debug.Stack())
		}
	}()

	resp, err = h.Handle(ctx, i)
	if err == nil && resp == nil {
		err = errors.New("handler returned no response")
	}
	return resp, err
}

func (d *Dispatcher) dispatchComponent(ctx context.Context, i *discordgo.Interaction) *discordgo.InteractionResponse {
	data := i.MessageComponentData()

	// Buttons are the only component category with a dedicated handler.
	if data.ComponentType != discordgo.ButtonComponent || d.buttons == nil {
		return discord.Ephemeral("This control isn't supported yet.")
	}

	resp, err := d.buttons.Handle(ctx, i)
	if err != nil {
		d.logger.Error("component handler failed", "custom_id", data.CustomID, "error", err)
		return discord.Ephemeral("Something went wrong.")
	}
	return resp
}

func (d *Dispatcher) dispatchModal(ctx context.Context, i *discordgo.Interaction) *discordgo.InteractionResponse {
	customID := i.ModalSubmitData().CustomID

	for _, route := range d.modals {
		if !route.Match(customID) {
			continue
		}
		resp, err := route.Handle(ctx, i)
		if err != nil {
			d.logger.Error("modal handler failed", "custom_id", customID, "error", err)
			return discord.Ephemeral("Something went wrong.")
		}
		return resp
	}

	d.logger.Info("unknown modal submission", "custom_id", customID)
	return discord.Ephemeral("Unknown form submission.")
}
