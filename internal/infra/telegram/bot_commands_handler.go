// internal/infra/telegram/bot_commands_handler.go
package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	"duty_rotation_bot/internal/domain/rotation"
	"duty_rotation_bot/internal/domain/staff"
	"duty_rotation_bot/internal/infra/config"
	idb "duty_rotation_bot/internal/infra/database"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func RegisterBotCommands(
	ctx context.Context,
	b *telebot.Bot,
	cfg *config.AppConfig, // For AdminTelegramID
	staffRepo staff.Repository,
	rotationRepo rotation.Repository,
	baseLogger *logrus.Entry, // For contextual logging
) {
	commandsLogger := baseLogger.WithField("handler_group", "bot_commands")

	b.Handle("/start", func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := commandsLogger.WithField("command", "/start").WithField("sender_id", senderID)
		logCtx.Info("Processing /start command")

		// Check if Admin
		if senderID == cfg.AdminTelegramID {
			logCtx.Info("User identified as Admin")
			return c.Send(fmt.Sprintf("Привет, Администратор %s! Я веду ротации дежурств. Используйте /help для списка команд.", c.Sender().FirstName))
		}

		// Check if Staff
		member, err := staffRepo.GetByTelegramID(ctx, senderID)
		if err == nil {
			if member.IsActive {
				logCtx.WithField("staff_id", member.ID).Info("User identified as active staff")
				return c.Send(fmt.Sprintf("Привет, %s! Я бот ротации дежурств: уборка по будням и открытые выступления по субботам. Команда /schedule покажет ближайшие слоты.", member.DisplayName))
			}
			logCtx.WithField("staff_id", member.ID).Info("User identified as inactive staff")
			return c.Send("Ваш аккаунт неактивен. Пожалуйста, свяжитесь с администратором.")
		} else if err != idb.ErrStaffNotFound {
			logCtx.WithError(err).Error("Error checking staff status for /start command")
			return c.Send("Произошла ошибка при проверке вашего статуса. Пожалуйста, попробуйте позже.")
		}

		// Unknown user
		logCtx.Info("User is unknown")
		return c.Send("Привет! Я бот ротации дежурств. Если вы сотрудник, попросите администратора добавить вас в систему.")
	})

	b.Handle("/help", func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := commandsLogger.WithField("command", "/help").WithField("sender_id", senderID)
		logCtx.Info("Processing /help command")

		// Admin Help
		if senderID == cfg.AdminTelegramID {
			logCtx.Info("User identified as Admin, sending admin help.")
			var helpText strings.Builder
			helpText.WriteString("Доступные команды Администратора:\n\n")
			helpText.WriteString("`/add_staff <TelegramID> <Имя>`\n - Добавить сотрудника и включить его в ротацию.\n\n")
			helpText.WriteString("`/remove_staff <TelegramID>`\n - Деактивировать сотрудника и перераспределить его слоты.\n\n")
			helpText.WriteString("`/add_holiday <ГГГГ-ММ-ДД>`\n - Объявить выходной; затронутые дежурства сдвинутся.\n\n")
			helpText.WriteString("`/move_event <ID> <ГГГГ-ММ-ДД>`\n - Перенести событие вручную; коллизии каскадируются.\n\n")
			helpText.WriteString("`/schedule`\n - Показать слоты на ближайшие две недели.\n\n")
			helpText.WriteString("`/help`\n - Показать это справочное сообщение.")
			return c.Send(helpText.String(), &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
		}

		return c.Send("Команда /schedule покажет дежурства на ближайшие две недели. По вопросам участия в ротации обратитесь к администратору.")
	})

	b.Handle("/schedule", func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := commandsLogger.WithField("command", "/schedule").WithField("sender_id", senderID)
		logCtx.Info("Processing /schedule command")

		members, err := staffRepo.ListAll(ctx)
		if err != nil {
			logCtx.WithError(err).Error("Failed to list staff for schedule")
			return c.Send("Произошла ошибка при загрузке расписания. Пожалуйста, попробуйте позже.")
		}
		names := make(map[int64]string, len(members))
		for _, m := range members {
			names[m.ID] = m.DisplayName
		}

		start := rotation.Date(time.Now())
		end := start.AddDate(0, 0, 14)
		var lines []string
		for _, typ := range []rotation.ScheduleType{rotation.TypeWeekdayPair, rotation.TypeSaturdaySolo} {
			cycles, err := rotationRepo.ListCyclesByType(ctx, typ)
			if err != nil {
				logCtx.WithError(err).Error("Failed to list cycles for schedule")
				return c.Send("Произошла ошибка при загрузке расписания. Пожалуйста, попробуйте позже.")
			}
			label := "уборка"
			if typ == rotation.TypeSaturdaySolo {
				label = "выступление"
			}
			for _, cyc := range cycles {
				for _, ev := range cyc.Events {
					if ev.Date.Before(start) || !ev.Date.Before(end) {
						continue
					}
					assigned := make([]string, 0, len(ev.StaffIDs))
					for _, id := range ev.StaffIDs {
						if name, ok := names[id]; ok {
							assigned = append(assigned, name)
						} else {
							assigned = append(assigned, fmt.Sprintf("#%d", id))
						}
					}
					lines = append(lines, fmt.Sprintf("%s — %s (№%d): %s", rotation.FormatDate(ev.Date), label, ev.ID, strings.Join(assigned, ", ")))
				}
			}
		}

		if len(lines) == 0 {
			return c.Send("На ближайшие две недели дежурств не запланировано.")
		}
		return c.Send("Расписание на две недели:\n" + strings.Join(lines, "\n"))
	})
}
