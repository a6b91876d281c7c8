// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hank PDK Contributors

package hank_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/hankhq/hank-pdk-go/pkg/hank"
	"github.com/hankhq/hank-pdk-go/pkg/hank/hanktest"
	"github.com/hankhq/hank-pdk-go/pkg/wire"
)

var _ = Describe("A reminder plugin across its lifecycle", func() {
	var (
		ctx  context.Context
		host *hanktest.Host
		p    *hank.Plugin
	)

	BeforeEach(func() {
		ctx = context.Background()
		p = hank.New(wire.Metadata{
			Name:        "remind",
			Version:     "0.2.0",
			Description: "Reminds the channel",
			Database:    true,
		})
		p.OnInstall(hank.InstallFunc(func(ctx context.Context) error {
			_, err := hank.DBQuery(ctx, wire.PreparedStatement{
				SQL: "CREATE TABLE reminders (id INTEGER PRIMARY KEY, body TEXT NOT NULL)",
			})
			return err
		}))
		p.OnInitialize(hank.InitializeFunc(func(ctx context.Context) error {
			_, err := hank.Cron(ctx, "0 9 * * *", hank.JobFunc(func(ctx context.Context) error {
				type reminder struct {
					Body string `json:"body"`
				}
				rows, err := hank.DBFetch[reminder](ctx, wire.PreparedStatement{SQL: "SELECT body FROM reminders ORDER BY id"})
				if err != nil {
					return err
				}
				for _, r := range rows {
					if err := hank.SendMessage(ctx, wire.Message{Content: r.Body}); err != nil {
						return err
					}
				}
				return nil
			}))
			return err
		}))
		p.OnChatCommand(hank.ChatCommandFunc(func(ctx context.Context, c wire.CommandContext, m wire.Message) error {
			body, _ := c.Argument("text")
			if _, err := hank.DBQuery(ctx, wire.PreparedStatement{
				SQL:    "INSERT INTO reminders (body) VALUES (?)",
				Values: []string{body},
			}); err != nil {
				return err
			}
			return hank.React(ctx, wire.Reaction{Emoji: "✅", Message: &m})
		}))

		host = hanktest.Start(GinkgoT(), p)
		Expect(host.UseSQLite(ctx)).To(Succeed())
		DeferCleanup(host.Close)
	})

	It("creates its table on install and schedules on initialize", func() {
		_, err := host.Deliver(ctx, hank.EntryInstall, nil)
		Expect(err).NotTo(HaveOccurred())
		_, err = host.Deliver(ctx, hank.EntryInitialize, nil)
		Expect(err).NotTo(HaveOccurred())

		Expect(host.Calls(hank.FuncDBQuery)).To(HaveLen(1))
		Expect(host.CronJobs()).To(ConsistOf(HaveField("Cron", "0 9 * * *")))
	})

	It("stores reminders from chat commands and posts them when the job fires", func() {
		_, err := host.Deliver(ctx, hank.EntryInstall, nil)
		Expect(err).NotTo(HaveOccurred())
		_, err = host.Deliver(ctx, hank.EntryInitialize, nil)
		Expect(err).NotTo(HaveOccurred())

		for _, text := range []string{"standup", "retro"} {
			_, err := host.Deliver(ctx, hank.EntryHandleChatCommand, wire.HandleChatCommandInput{
				Context: &wire.CommandContext{
					Name:      "remind",
					Arguments: []wire.ArgumentValue{{Name: "text", Value: text}},
				},
				Message: &wire.Message{ID: text, Content: "!remind " + text},
			})
			Expect(err).NotTo(HaveOccurred())
		}
		Expect(host.Reactions()).To(HaveLen(2))

		jobs := host.CronJobs()
		Expect(jobs).To(HaveLen(1))
		Expect(host.FireJob(ctx, jobs[0].JobID)).To(Succeed())

		Expect(host.SentMessages()).To(Equal([]wire.Message{
			{Content: "standup"},
			{Content: "retro"},
		}))
	})

	It("reports metadata without invoking any hook", func() {
		out, err := hank.Dispatch(ctx, hank.EntryGetMetadata, nil)
		Expect(err).NotTo(HaveOccurred())

		var meta wire.Metadata
		Expect(wire.JSON.Unmarshal(out, &meta)).To(Succeed())
		Expect(meta.Name).To(Equal("remind"))
		Expect(meta.Database).To(BeTrue())
		Expect(host.Calls("")).To(BeEmpty())
	})

	It("refuses a second plugin in the same module", func() {
		Expect(hank.New(wire.Metadata{Name: "other"}).Start()).To(HaveOccurred())
	})
})
