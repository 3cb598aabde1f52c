/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	_ "embed"
	"fmt"
	"maps"
	"slices"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/theGerk/RSI-ChessClub/club"
	"github.com/theGerk/RSI-ChessClub/internal"
	"github.com/theGerk/RSI-ChessClub/pairing"
)

type ClubSubCommand string

const (
	ClubHelpCmd      ClubSubCommand = "help"
	ClubPairingsCmd  ClubSubCommand = "pairings"
	ClubRatingCmd    ClubSubCommand = "rating"
	ClubStandingsCmd ClubSubCommand = "standings"
)

func (b *bot) clubSubCmdHdlrs() map[ClubSubCommand]CmdHandler {
	return map[ClubSubCommand]CmdHandler{
		ClubHelpCmd:      b.clubHelpCmdHandler,
		ClubPairingsCmd:  b.clubPairingsCmdHandler,
		ClubRatingCmd:    b.clubRatingCmdHandler,
		ClubStandingsCmd: b.clubStandingsCmdHandler,
	}
}

func (b *bot) clubCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	data := inter.ApplicationCommandData()
	hdlr := b.clubHelpCmdHandler
	if len(data.Options) > 0 {
		if h, ok := b.clubSubCmdHdlrs()[ClubSubCommand(data.Options[0].Name)]; ok {
			hdlr = h
		}
	}
	return hdlr(ctx, inter)
}

// subOptions returns the string options of the invoked sub command and
// whether the answer should be broadcast.
func subOptions(inter *discordgo.Interaction) (map[string]string, bool) {
	opts := make(map[string]string)
	broadcast := false
	data := inter.ApplicationCommandData()
	if len(data.Options) == 0 {
		return opts, false
	}
	for _, opt := range data.Options[0].Options {
		switch opt.Type {
		case discordgo.ApplicationCommandOptionBoolean:
			if opt.Name == "broadcast" {
				broadcast = opt.BoolValue()
			}
		case discordgo.ApplicationCommandOptionString:
			opts[opt.Name] = opt.StringValue()
		}
	}
	return opts, broadcast
}

func newResponse(broadcast bool) *discordgo.InteractionResponse {
	resp := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{},
	}
	if !broadcast {
		resp.Data.Flags = discordgo.MessageFlagsEphemeral
	}
	return resp
}

//go:embed help.md
var helpText string

func (b *bot) clubHelpCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newResponse(false)
	resp.Data.Content = truncateContent(helpText)
	return resp
}

// loadClub reads the current snapshot; on failure the error is written
// into resp and nil is returned.
func (b *bot) loadClub(ctx context.Context, resp *discordgo.InteractionResponse,
	what string) *club.Club {

	snap, err := b.store.Load(ctx)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error loading the club: %v", err)
		b.logger.Error("discordbot.load", zap.String("cmd", what), zap.Error(err))
		return nil
	}
	c, err := club.FromSnapshot(snap, club.WithLogger(b.logger))
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error loading the club: %v", err)
		b.logger.Error("discordbot.load", zap.String("cmd", what), zap.Error(err))
		return nil
	}
	return c
}

func (b *bot) clubPairingsCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	opts, broadcast := subOptions(inter)
	resp := newResponse(broadcast)
	c := b.loadClub(ctx, resp, "pairings")
	if c == nil {
		return resp
	}

	rounds := c.Pending
	if pool := internal.NormalizeName(opts["pool"]); pool != "" {
		rounds = map[string][]pairing.Pairing{}
		if r, ok := c.Pending[pool]; ok {
			rounds[pool] = r
		}
	}
	if len(rounds) == 0 {
		resp.Data.Content = "No pairings have been made for the current round."
		return resp
	}

	title := "Pairings"
	if len(rounds) == 1 {
		title = fmt.Sprintf("Pairings: %v", slices.Collect(maps.Keys(rounds))[0])
	}
	resp.Data.Embeds = []*discordgo.MessageEmbed{{
		Title:       title,
		Description: truncateContent("```\n" + c.BuildPairingsOutput(rounds) + "```"),
	}}
	return resp
}

func (b *bot) clubRatingCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	opts, broadcast := subOptions(inter)
	resp := newResponse(broadcast)
	if opts["player"] == "" {
		resp.Data.Content = "Please provide a player."
		return resp
	}
	c := b.loadClub(ctx, resp, "rating")
	if c == nil {
		return resp
	}
	m, err := c.Lookup(opts["player"])
	if err != nil {
		resp.Data.Content = fmt.Sprintf("%v", err)
		return resp
	}
	resp.Data.Embeds = []*discordgo.MessageEmbed{{
		Title:       m.Name,
		Description: truncateContent("```\n" + c.BuildMemberOutput(m, 5) + "```"),
	}}
	return resp
}

func (b *bot) clubStandingsCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	opts, broadcast := subOptions(inter)
	resp := newResponse(broadcast)
	c := b.loadClub(ctx, resp, "standings")
	if c == nil {
		return resp
	}
	members := c.Standings(opts["pool"])
	if len(members) == 0 {
		resp.Data.Content = "No members found."
		return resp
	}
	title := "Standings"
	if opts["pool"] != "" {
		title = fmt.Sprintf("Standings: %v", internal.NormalizeName(opts["pool"]))
	}
	resp.Data.Embeds = []*discordgo.MessageEmbed{{
		Title:       title,
		Description: truncateContent("```\n" + club.BuildStandingsOutput(members) + "```"),
	}}
	return resp
}

func truncateContent(s string) string {
	const MsgLimit = 1988 // keep space for newlines and markdown
	runes := []rune(s)
	if len(runes) > MsgLimit {
		s = fmt.Sprintf("%v...", string(runes[:MsgLimit]))
	}
	return s
}
