package i18n

// Key identifies a localized message.
type Key string

const (
	KeyGenericError  Key = "error.generic"
	KeyBusy          Key = "error.busy"
	KeyNotRegistered Key = "error.not_registered"

	KeyStatusEmpty Key = "turn.status_empty"
	KeyDiceHeader  Key = "turn.dice"
	KeyPlayerChose Key = "turn.player_chose"
	KeyResetButton Key = "turn.reset_button"
	KeyResetDone   Key = "turn.reset_done"

	KeyEffectHPGain  Key = "effect.hp_gain"
	KeyEffectHPLoss  Key = "effect.hp_loss"
	KeyEffectXPGain  Key = "effect.xp_gain"
	KeyEffectXPLoss  Key = "effect.xp_loss"
	KeyEffectLevelUp Key = "effect.level_up"
	KeyEffectSpell   Key = "effect.spell"
	KeyEffectItem    Key = "effect.item"
	KeyEffectNote    Key = "effect.note"

	KeyAskLanguage    Key = "wizard.ask_language"
	KeyAskName        Key = "wizard.ask_name"
	KeyNameNotText    Key = "wizard.name_not_text"
	KeyAskAge         Key = "wizard.ask_age"
	KeyAgeInvalid     Key = "wizard.age_invalid"
	KeyAskGender      Key = "wizard.ask_gender"
	KeyGenderMale     Key = "wizard.gender_male"
	KeyGenderFemale   Key = "wizard.gender_female"
	KeyAskBackground  Key = "wizard.ask_background"
	KeyCharacterReady Key = "wizard.character_ready"
	KeyBeginAdventure Key = "wizard.begin_adventure"
)

var ru = map[Key]string{
	KeyGenericError:  "Ой, Гейм-мастер призадумался... Попробуй еще раз чуть позже.",
	KeyBusy:          "⏳ Мастер ещё пишет предыдущую сцену. Подожди немного.",
	KeyNotRegistered: "Похоже, ты еще не зарегистрирован. Напиши /start",

	KeyStatusEmpty: "…",
	KeyDiceHeader:  "🎲 Бросок судьбы:\n\n{{.Text}}",
	KeyPlayerChose: "Игрок выбрал: {{.Label}}",
	KeyResetButton: "🗑 Стереть прогресс",
	KeyResetDone:   "Твой герой забыт. Напиши /start, чтобы начать новую историю.",

	KeyEffectHPGain:  "❤️ Здоровье: +{{.Amount}}",
	KeyEffectHPLoss:  "💔 Здоровье: -{{.Amount}}",
	KeyEffectXPGain:  "✨ Опыт: +{{.Amount}}",
	KeyEffectXPLoss:  "🌑 Опыт: -{{.Amount}}",
	KeyEffectLevelUp: "🎉 Новый уровень: {{.Amount}}!",
	KeyEffectSpell:   "📖 Новая способность: {{.Value}}",
	KeyEffectItem:    "🎒 Получен предмет: {{.Value}}",
	KeyEffectNote:    "📝 Запомнено: {{.Value}}",

	KeyAskLanguage:    "Выбери язык / Choose your language",
	KeyAskName:        "Приветствую, путник! Как величать твоего героя?",
	KeyNameNotText:    "Пожалуйста, введи имя текстом.",
	KeyAskAge:         "Приятно познакомиться, {{.Name}}. А сколько зим твоему герою?",
	KeyAgeInvalid:     "Возраст должен быть числом. Попробуй еще раз.",
	KeyAskGender:      "Кто твой герой?",
	KeyGenderMale:     "🧔 Мужчина",
	KeyGenderFemale:   "👩 Женщина",
	KeyAskBackground:  "Расскажи в двух словах о прошлом героя: откуда он родом и чем жил до приключений?",
	KeyCharacterReady: "Персонаж {{.Name}} ({{.Age}} лет) готов к приключениям! Начинаем историю...",
	KeyBeginAdventure: "Начни историю моего приключения в темном фэнтези мире.",
}

var en = map[Key]string{
	KeyGenericError:  "Oops, the Game Master got lost in thought... Please try again a little later.",
	KeyBusy:          "⏳ The Game Master is still writing the previous scene. Please wait a moment.",
	KeyNotRegistered: "Looks like you are not registered yet. Type /start",

	KeyStatusEmpty: "…",
	KeyDiceHeader:  "🎲 Roll of fate:\n\n{{.Text}}",
	KeyPlayerChose: "Player chose: {{.Label}}",
	KeyResetButton: "🗑 Erase progress",
	KeyResetDone:   "Your hero is forgotten. Type /start to begin a new story.",

	KeyEffectHPGain:  "❤️ Health: +{{.Amount}}",
	KeyEffectHPLoss:  "💔 Health: -{{.Amount}}",
	KeyEffectXPGain:  "✨ Experience: +{{.Amount}}",
	KeyEffectXPLoss:  "🌑 Experience: -{{.Amount}}",
	KeyEffectLevelUp: "🎉 Level up! You are now level {{.Amount}}",
	KeyEffectSpell:   "📖 New ability: {{.Value}}",
	KeyEffectItem:    "🎒 Item acquired: {{.Value}}",
	KeyEffectNote:    "📝 Remembered: {{.Value}}",

	KeyAskLanguage:    "Выбери язык / Choose your language",
	KeyAskName:        "Greetings, traveller! What is your hero's name?",
	KeyNameNotText:    "Please type the name as text.",
	KeyAskAge:         "Nice to meet you, {{.Name}}. How many winters has your hero seen?",
	KeyAgeInvalid:     "Age must be a positive number. Try again.",
	KeyAskGender:      "Who is your hero?",
	KeyGenderMale:     "🧔 Male",
	KeyGenderFemale:   "👩 Female",
	KeyAskBackground:  "Tell me briefly about your hero's past: where do they come from and how did they live before the adventure?",
	KeyCharacterReady: "{{.Name}} ({{.Age}} years) is ready for adventure! The story begins...",
	KeyBeginAdventure: "Begin the story of my adventure in a dark fantasy world.",
}
