package presenter

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message/catalog"
)

// Catalog keys.
const (
	keyWelcome          = "welcome"
	keyDenied           = "denied"
	keyHelp             = "help"
	keyAdminHome        = "admin_home"
	keyStats            = "stats"
	keyStatsUnavailable = "stats_unavailable"
	keyListTitle        = "list_title"
	keyListEmpty        = "list_empty"
	keyListMore         = "list_more"
	keyListUnavailable  = "list_unavailable"
	keyPromptAdd        = "prompt_add"
	keyPromptRemove     = "prompt_remove"
	keyAdded            = "added"
	keyRemoved          = "removed"
	keyNotFound         = "not_found"
	keyInvalidInput     = "invalid_input"
	keyStoreFailure     = "store_failure"
	keyAdminDenied      = "admin_denied"

	btnOpenApp = "btn_open_app"
	btnSupport = "btn_support"
	btnApply   = "btn_apply"
	btnAdd     = "btn_add"
	btnRemove  = "btn_remove"
	btnList    = "btn_list"
	btnStats   = "btn_stats"
	btnClose   = "btn_close"
	btnBack    = "btn_back"
)

var translations = map[language.Tag]map[string]string{
	language.English: {
		keyWelcome: "🤖 <b>Welcome to AI Trade!</b>\n\n" +
			"Your access is active. Tap the button below to open the app 👇",
		keyDenied: "⛔️ <b>Access closed</b>\n\n" +
			"Unfortunately you do not have access to this service.\n\n" +
			"To request access, contact support.",
		keyHelp: "ℹ️ <b>Commands</b>\n\n" +
			"/start - open the app or check your access\n" +
			"/help - show this message",
		keyAdminHome: "🔐 <b>Admin panel</b>\n\n" +
			"👥 Users on the allow-list: %d\n" +
			"📊 Total users: %d\n\n" +
			"Choose an action:",
		keyStats: "📊 <b>Statistics</b>\n\n" +
			"Total users: %d\n" +
			"With access: %d\n" +
			"Without access: %d",
		keyStatsUnavailable: "⚠️ Statistics are unavailable right now.",
		keyListTitle:        "📋 <b>Allow-list</b>",
		keyListEmpty:        "📭 The allow-list is empty.",
		keyListMore:         "... and %d more",
		keyListUnavailable:  "⚠️ The allow-list is unavailable right now.",
		keyPromptAdd:        "➕ <b>Add user</b>\n\nSend the @username or Telegram ID of the user:",
		keyPromptRemove:     "➖ <b>Remove user</b>\n\nSend the @username or Telegram ID of the user:",
		keyAdded:            "✅ User %s added to the allow-list!",
		keyRemoved:          "❌ User %s removed from the allow-list!",
		keyNotFound:         "⚠️ User not found.",
		keyInvalidInput:     "⚠️ Send a @username or a numeric Telegram ID.",
		keyStoreFailure:     "⚠️ The change could not be saved. Try again later.",
		keyAdminDenied:      "⛔️ Access denied",
		btnOpenApp:          "🚀 Open AI Trade",
		btnSupport:          "📊 Support",
		btnApply:            "📝 Request access",
		btnAdd:              "➕ Add",
		btnRemove:           "➖ Remove",
		btnList:             "📋 Allow-list",
		btnStats:            "📊 Statistics",
		btnClose:            "🔙 Close",
		btnBack:             "🔙 Back",
	},
	language.Russian: {
		keyWelcome: "🤖 <b>Добро пожаловать в AI Trade!</b>\n\n" +
			"Доступ открыт. Нажмите кнопку ниже, чтобы открыть приложение 👇",
		keyDenied: "⛔️ <b>Доступ закрыт</b>\n\n" +
			"К сожалению, у вас нет доступа к этому сервису.\n\n" +
			"Для получения доступа обратитесь в поддержку.",
		keyHelp: "ℹ️ <b>Команды</b>\n\n" +
			"/start - открыть приложение или проверить доступ\n" +
			"/help - показать это сообщение",
		keyAdminHome: "🔐 <b>Панель администратора</b>\n\n" +
			"👥 Пользователей в whitelist: %d\n" +
			"📊 Всего пользователей: %d\n\n" +
			"Выберите действие:",
		keyStats: "📊 <b>Статистика</b>\n\n" +
			"Всего пользователей: %d\n" +
			"С доступом: %d\n" +
			"Без доступа: %d",
		keyStatsUnavailable: "⚠️ Статистика сейчас недоступна.",
		keyListTitle:        "📋 <b>Whitelist</b>",
		keyListEmpty:        "📭 Whitelist пуст.",
		keyListMore:         "... и ещё %d",
		keyListUnavailable:  "⚠️ Whitelist сейчас недоступен.",
		keyPromptAdd:        "➕ <b>Добавление пользователя</b>\n\nВведите @username или Telegram ID пользователя:",
		keyPromptRemove:     "➖ <b>Удаление пользователя</b>\n\nВведите @username или Telegram ID пользователя:",
		keyAdded:            "✅ Пользователь %s успешно добавлен в whitelist!",
		keyRemoved:          "❌ Пользователь %s удалён из whitelist!",
		keyNotFound:         "⚠️ Пользователь не найден.",
		keyInvalidInput:     "⚠️ Введите @username или числовой Telegram ID.",
		keyStoreFailure:     "⚠️ Не удалось сохранить изменения. Попробуйте позже.",
		keyAdminDenied:      "⛔️ Доступ запрещён",
		btnOpenApp:          "🚀 Открыть AI Trade",
		btnSupport:          "📊 Поддержка",
		btnApply:            "📝 Подать заявку",
		btnAdd:              "➕ Добавить",
		btnRemove:           "➖ Удалить",
		btnList:             "📋 Whitelist",
		btnStats:            "📊 Статистика",
		btnClose:            "🔙 Закрыть",
		btnBack:             "🔙 Назад",
	},
	language.Ukrainian: {
		keyWelcome: "🤖 <b>Ласкаво просимо до AI Trade!</b>\n\n" +
			"Доступ відкрито. Натисніть кнопку нижче, щоб відкрити застосунок 👇",
		keyDenied: "⛔️ <b>Доступ закрито</b>\n\n" +
			"На жаль, у вас немає доступу до цього сервісу.\n\n" +
			"Щоб отримати доступ, зверніться до підтримки.",
		keyHelp: "ℹ️ <b>Команди</b>\n\n" +
			"/start - відкрити застосунок або перевірити доступ\n" +
			"/help - показати це повідомлення",
		keyAdminHome: "🔐 <b>Панель адміністратора</b>\n\n" +
			"👥 Користувачів у whitelist: %d\n" +
			"📊 Всього користувачів: %d\n\n" +
			"Оберіть дію:",
		keyStats: "📊 <b>Статистика</b>\n\n" +
			"Всього користувачів: %d\n" +
			"З доступом: %d\n" +
			"Без доступу: %d",
		keyStatsUnavailable: "⚠️ Статистика зараз недоступна.",
		keyListTitle:        "📋 <b>Whitelist</b>",
		keyListEmpty:        "📭 Whitelist порожній.",
		keyListMore:         "... та ще %d",
		keyListUnavailable:  "⚠️ Whitelist зараз недоступний.",
		keyPromptAdd:        "➕ <b>Додавання користувача</b>\n\nВведіть @username або Telegram ID користувача:",
		keyPromptRemove:     "➖ <b>Видалення користувача</b>\n\nВведіть @username або Telegram ID користувача:",
		keyAdded:            "✅ Користувача %s додано до whitelist!",
		keyRemoved:          "❌ Користувача %s видалено з whitelist!",
		keyNotFound:         "⚠️ Користувача не знайдено.",
		keyInvalidInput:     "⚠️ Введіть @username або числовий Telegram ID.",
		keyStoreFailure:     "⚠️ Не вдалося зберегти зміни. Спробуйте пізніше.",
		keyAdminDenied:      "⛔️ Доступ заборонено",
		btnOpenApp:          "🚀 Відкрити AI Trade",
		btnSupport:          "📊 Підтримка",
		btnApply:            "📝 Подати заявку",
		btnAdd:              "➕ Додати",
		btnRemove:           "➖ Видалити",
		btnList:             "📋 Whitelist",
		btnStats:            "📊 Статистика",
		btnClose:            "🔙 Закрити",
		btnBack:             "🔙 Назад",
	},
}

// Supported lists the locales with a full translation.
func Supported() []language.Tag {
	return []language.Tag{language.English, language.Russian, language.Ukrainian}
}

func newCatalog(fallback language.Tag) (*catalog.Builder, error) {
	b := catalog.NewBuilder(catalog.Fallback(fallback))
	for tag, msgs := range translations {
		for key, msg := range msgs {
			if err := b.SetString(tag, key, msg); err != nil {
				return nil, err
			}
		}
	}
	return b, nil
}
