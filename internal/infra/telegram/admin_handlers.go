package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"duty_rotation_bot/internal/app"
	"duty_rotation_bot/internal/domain/rotation"
	idb "duty_rotation_bot/internal/infra/database"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// RegisterAdminHandlers registers handlers for admin commands. Staff and
// holiday changes go through AdminService for the directory part and
// RotationService for the schedule ripple.
func RegisterAdminHandlers(
	ctx context.Context,
	b *telebot.Bot,
	adminService *app.AdminService,
	rotationService app.RotationService,
	adminTelegramID int64,
	baseLogger *logrus.Entry,
) {
	b.Handle("/add_staff", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/add_staff",
			"sender_id": c.Sender().ID,
		})
		handlerLogger.Info("Command received")

		if c.Sender().ID != adminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send("Ошибка: У вас нет прав для выполнения этой команды.")
		}

		args := c.Args()
		// Expected format: /add_staff <TelegramID> <Имя>
		if len(args) < 2 {
			handlerLogger.WithField("args_count", len(args)).Warn("Invalid command format")
			return c.Send("Неверный формат команды. Используйте: /add_staff <TelegramID> <Имя>")
		}

		staffTelegramID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return c.Send("Ошибка: Telegram ID должен быть числом.")
		}

		displayName := strings.TrimSpace(strings.Join(args[1:], " "))
		if displayName == "" {
			return c.Send("Ошибка: Имя не может быть пустым.")
		}

		handlerLogger = handlerLogger.WithFields(logrus.Fields{
			"staff_telegram_id": staffTelegramID,
			"display_name":      displayName,
		})

		newStaff, err := adminService.AddStaff(ctx, c.Sender().ID, staffTelegramID, displayName)
		if err != nil {
			logWithError := handlerLogger.WithError(err)
			switch err {
			case app.ErrAdminNotAuthorized:
				logWithError.Warn("Admin not authorized (service level)")
				return c.Send("Ошибка: У вас нет прав для выполнения этой команды.")
			case app.ErrStaffAlreadyExists:
				logWithError.Warn("Staff member already exists")
				return c.Send(fmt.Sprintf("Ошибка: Сотрудник с Telegram ID %d уже существует.", staffTelegramID))
			default:
				logWithError.Error("Failed to add staff member")
				return c.Send(fmt.Sprintf("Произошла ошибка при добавлении сотрудника: %s", err.Error()))
			}
		}

		if err := rotationService.ProcessStaffActivated(ctx, newStaff.ID); err != nil {
			handlerLogger.WithError(err).Error("Failed to onboard staff into rotation")
			return c.Send(fmt.Sprintf("Сотрудник %s добавлен, но расписание обновить не удалось: %s", newStaff.DisplayName, err.Error()))
		}

		handlerLogger.WithField("new_staff_id", newStaff.ID).Info("Staff member added and onboarded")
		return c.Send(fmt.Sprintf("Сотрудник %s (ID: %d) добавлен и включён в ротацию.", newStaff.DisplayName, newStaff.TelegramID))
	})

	b.Handle("/remove_staff", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/remove_staff",
			"sender_id": c.Sender().ID,
		})
		handlerLogger.Info("Command received")

		if c.Sender().ID != adminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send("Ошибка: У вас нет прав для выполнения этой команды.")
		}

		args := c.Args()
		if len(args) != 1 {
			return c.Send("Неверный формат команды. Используйте: /remove_staff <TelegramID>")
		}

		staffTelegramID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return c.Send("Ошибка: Telegram ID должен быть числом.")
		}

		handlerLogger = handlerLogger.WithField("staff_telegram_id", staffTelegramID)

		removed, err := adminService.RemoveStaff(ctx, c.Sender().ID, staffTelegramID)
		if err != nil {
			logWithError := handlerLogger.WithError(err)
			switch err {
			case app.ErrAdminNotAuthorized:
				return c.Send("Ошибка: У вас нет прав для выполнения этой команды.")
			case idb.ErrStaffNotFound:
				logWithError.Warn("Staff member not found")
				return c.Send(fmt.Sprintf("Ошибка: Сотрудник с Telegram ID %d не найден.", staffTelegramID))
			case app.ErrStaffAlreadyInactive:
				logWithError.Warn("Staff member already inactive")
				return c.Send(fmt.Sprintf("Сотрудник %s уже деактивирован.", removed.DisplayName))
			default:
				logWithError.Error("Failed to remove staff member")
				return c.Send(fmt.Sprintf("Произошла ошибка при удалении сотрудника: %s", err.Error()))
			}
		}

		if err := rotationService.ProcessStaffDeactivated(ctx, removed.ID, time.Now()); err != nil {
			handlerLogger.WithError(err).Error("Failed to reflow rotation after staff leave")
			return c.Send(fmt.Sprintf("Сотрудник %s деактивирован, но расписание обновить не удалось: %s", removed.DisplayName, err.Error()))
		}

		handlerLogger.WithField("staff_id", removed.ID).Info("Staff member deactivated and rotation reflowed")
		return c.Send(fmt.Sprintf("Сотрудник %s деактивирован, его будущие слоты перераспределены.", removed.DisplayName))
	})

	b.Handle("/add_holiday", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/add_holiday",
			"sender_id": c.Sender().ID,
		})
		handlerLogger.Info("Command received")

		if c.Sender().ID != adminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send("Ошибка: У вас нет прав для выполнения этой команды.")
		}

		args := c.Args()
		if len(args) != 1 {
			return c.Send("Неверный формат команды. Используйте: /add_holiday <ГГГГ-ММ-ДД>")
		}

		day, err := rotation.ParseDate(args[0])
		if err != nil {
			return c.Send("Ошибка: Дата должна быть в формате ГГГГ-ММ-ДД, например 2026-03-08.")
		}

		if err := rotationService.ProcessHolidayAdded(ctx, day); err != nil {
			handlerLogger.WithError(err).Error("Failed to process holiday")
			return c.Send(fmt.Sprintf("Произошла ошибка при добавлении выходного: %s", err.Error()))
		}

		handlerLogger.WithField("holiday", args[0]).Info("Holiday added and ripple applied")
		return c.Send(fmt.Sprintf("Выходной %s добавлен. Затронутые дежурства перенесены.", args[0]))
	})

	b.Handle("/move_event", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/move_event",
			"sender_id": c.Sender().ID,
		})
		handlerLogger.Info("Command received")

		if c.Sender().ID != adminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send("Ошибка: У вас нет прав для выполнения этой команды.")
		}

		args := c.Args()
		if len(args) != 2 {
			return c.Send("Неверный формат команды. Используйте: /move_event <ID события> <ГГГГ-ММ-ДД>")
		}

		eventID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return c.Send("Ошибка: ID события должен быть числом.")
		}
		day, err := rotation.ParseDate(args[1])
		if err != nil {
			return c.Send("Ошибка: Дата должна быть в формате ГГГГ-ММ-ДД.")
		}

		if err := rotationService.ProcessEventMove(ctx, eventID, day); err != nil {
			logWithError := handlerLogger.WithError(err)
			if errors.Is(err, idb.ErrEventNotFound) || errors.Is(err, rotation.ErrEventNotFound) {
				logWithError.Warn("Event not found")
				return c.Send(fmt.Sprintf("Ошибка: Событие с ID %d не найдено.", eventID))
			}
			logWithError.Error("Failed to move event")
			return c.Send(fmt.Sprintf("Произошла ошибка при переносе события: %s", err.Error()))
		}

		handlerLogger.WithFields(logrus.Fields{"event_id": eventID, "new_date": args[1]}).Info("Event moved")
		return c.Send(fmt.Sprintf("Событие %d перенесено на %s.", eventID, args[1]))
	})
}
