package main

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/riskibarqy/jersey-metadata/internal/usecase"
)

func newTable(header ...any) table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row(header))
	return tw
}

func renderCandidates(players []usecase.PlayerCandidate) string {
	tw := newTable("ID", "Name", "Number", "Position", "Score")
	for _, p := range players {
		tw.AppendRow(table.Row{p.PlayerID, p.FullName, p.JerseyNumber, p.Position, p.ConfidenceScore})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	return tw.Render()
}

func renderAutoLink(result usecase.AutoLinkResult) string {
	tw := newTable("Field", "ID", "Value")
	tw.AppendRow(table.Row{"club", idOrDash(result.ClubID), result.ClubName})
	tw.AppendRow(table.Row{"season", idOrDash(result.SeasonID), result.SeasonLabel})
	tw.AppendRow(table.Row{"player", idOrDash(result.PlayerID), result.PlayerName})
	tw.AppendFooter(table.Row{"confidence", "", result.Confidence})
	return tw.Render()
}

func renderBackfillReport(report usecase.BackfillReport) string {
	tw := newTable("Entity", "Upserted", "Skipped", "Failed")
	tw.AppendRow(table.Row{"players", report.PlayersUpserted, report.PlayersSkipped, report.PlayersFailed})
	tw.AppendRow(table.Row{"contracts", report.ContractsUpserted, report.ContractsSkipped, report.ContractsFailed})
	tw.AppendFooter(table.Row{"history failures", "", "", report.HistoryFailed})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	return tw.Render()
}

func renderSeedReport(report usecase.SeedReport) string {
	tw := newTable("Club ID", "Club", "Players", "Contracts", "Error")
	for _, c := range report.Clubs {
		players, contracts := "-", "-"
		if c.Backfill != nil {
			players = strconv.Itoa(c.Backfill.PlayersUpserted)
			contracts = strconv.Itoa(c.Backfill.ContractsUpserted)
		}
		tw.AppendRow(table.Row{c.ClubID, c.ClubName, players, contracts, c.Error})
	}
	tw.AppendFooter(table.Row{"", "linked " + strconv.Itoa(report.ClubsLinked), "", "", "failed " + strconv.Itoa(report.ClubsFailed)})
	return tw.Render()
}

func idOrDash(id int64) string {
	if id == 0 {
		return "-"
	}
	return strconv.FormatInt(id, 10)
}
