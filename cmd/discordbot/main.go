/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/theGerk/RSI-ChessClub/internal"
	"github.com/theGerk/RSI-ChessClub/store"
)

type TopLevelCommand string

const ClubCmd TopLevelCommand = "club"

type CmdHandler func(ctx context.Context, i *discordgo.Interaction) *discordgo.InteractionResponse

// bot answers Discord interactions from the club snapshot. It never writes
// to the store.
type bot struct {
	cfg     internal.DiscordConfig
	logger  *zap.Logger
	store   store.Store
	pubKey  ed25519.PublicKey
	session *discordgo.Session
}

func newBot(cfg internal.DiscordConfig, st store.Store, logger *zap.Logger) (*bot, error) {
	pubKeyBytes, err := hex.DecodeString(cfg.PublicKey)
	if err != nil || len(pubKeyBytes) != ed25519.PublicKeySize {
		return nil, errors.New("discordbot: CLUB_DISCORD_PUBLIC_KEY is not a hex ed25519 key")
	}
	b := &bot{cfg: cfg, logger: logger, store: st, pubKey: ed25519.PublicKey(pubKeyBytes)}
	if cfg.Token != "" {
		b.session, err = discordgo.New("Bot " + cfg.Token)
		if err != nil {
			return nil, fmt.Errorf("discordbot: failed to initialize discord client: %w", err)
		}
	}
	return b, nil
}

func (b *bot) topLevelCmdHdlrs() map[TopLevelCommand]CmdHandler {
	return map[TopLevelCommand]CmdHandler{
		ClubCmd: b.clubCmdHandler,
	}
}

func (b *bot) interactionHandler(w http.ResponseWriter, r *http.Request) {
	if !discordgo.VerifyInteraction(r, b.pubKey) {
		b.logger.Warn("discordbot.int: failed to verify")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		b.logger.Warn("discordbot.int: failed to read request body", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var inter discordgo.Interaction
	if err := inter.UnmarshalJSON(body); err != nil {
		b.logger.Warn("discordbot.int: failed to unmarshal interaction",
			zap.Error(err), zap.ByteString("body", body))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	resp := &discordgo.InteractionResponse{}
	switch inter.Type {
	case discordgo.InteractionPing:
		resp.Type = discordgo.InteractionResponsePong
	case discordgo.InteractionApplicationCommand:
		name := inter.ApplicationCommandData().Name
		hdlr, ok := b.topLevelCmdHdlrs()[TopLevelCommand(name)]
		if !ok {
			resp = newResponse(false)
			resp.Data.Content = fmt.Sprintf("unknown command '%v'", name)
		} else {
			resp = hdlr(r.Context(), &inter)
		}
	default:
		b.logger.Warn("discordbot.int: unimplemented interaction type",
			zap.Stringer("type", inter.Type))
		w.WriteHeader(http.StatusNotImplemented)
		return
	}

	rawResp, err := json.Marshal(resp)
	if err != nil {
		b.logger.Error("discordbot.int: failed to marshal resp", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(rawResp); err != nil {
		b.logger.Warn("discordbot.int: failed to write resp", zap.Error(err))
	}
}

func clubCommand() *discordgo.ApplicationCommand {
	broadcast := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionBoolean,
		Name:        "broadcast",
		Description: "Share with the rest of the channel instead of only to you (default is false)",
		Required:    false,
	}
	pool := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "pool",
		Description: "Pairing pool (default is every pool)",
		Required:    false,
	}
	return &discordgo.ApplicationCommand{
		Name:        string(ClubCmd),
		Description: "Club ratings and pairings; try /club help to start",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(ClubHelpCmd),
				Description: "Show usage for club",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(ClubPairingsCmd),
				Description: "Show the pairings of the current round",
				Options:     []*discordgo.ApplicationCommandOption{pool, broadcast},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(ClubRatingCmd),
				Description: "Show a member's rating",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "player",
						Description: "Member name",
						Required:    true,
					},
					broadcast,
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(ClubStandingsCmd),
				Description: "Show the rating list",
				Options:     []*discordgo.ApplicationCommandOption{pool, broadcast},
			},
		},
	}
}

func (b *bot) registerSlashCommands() {
	if b.session == nil || b.cfg.AppID == "" {
		b.logger.Info("discordbot.reg: no token or app id; skipping command registration")
		return
	}
	cmd := clubCommand()
	if b.cfg.CommandID == "" {
		created, err := b.session.ApplicationCommandCreate(b.cfg.AppID, "", cmd)
		if err != nil {
			b.logger.Error("discordbot.reg: failed to register", zap.String("cmd", cmd.Name), zap.Error(err))
			return
		}
		b.logger.Info("discordbot.reg: registered; set CLUB_DISCORD_COMMAND_ID",
			zap.String("cmd", created.Name), zap.String("cmdID", created.ID))
		return
	}
	updated, err := b.session.ApplicationCommandEdit(b.cfg.AppID, "", b.cfg.CommandID, cmd)
	if err != nil {
		b.logger.Error("discordbot.reg: failed to update", zap.String("cmd", cmd.Name), zap.Error(err))
		return
	}
	b.logger.Info("discordbot.reg: updated", zap.String("cmd", updated.Name), zap.String("cmdID", updated.ID))
}

func main() {
	ctx := context.Background()
	cfg, err := internal.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "discordbot: %v\n", err)
		os.Exit(1)
	}
	logger, err := internal.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "discordbot: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	st, err := store.Open(ctx, cfg.Store, cfg.S3Gzip, logger)
	if err != nil {
		logger.Fatal("discordbot.main: failed to open store", zap.Error(err))
	}
	b, err := newBot(cfg.Discord, st, logger)
	if err != nil {
		logger.Fatal("discordbot.main", zap.Error(err))
	}
	go b.registerSlashCommands()

	http.HandleFunc("/DiscordBot/Interaction", b.interactionHandler)
	logger.Info("discordbot.main: starting server", zap.String("addr", cfg.Discord.Addr))
	if err := http.ListenAndServe(cfg.Discord.Addr, nil); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("discordbot.main: serve failed", zap.Error(err))
	}
	logger.Info("discordbot.main: exiting")
}
