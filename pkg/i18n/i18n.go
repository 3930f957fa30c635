package i18n

type Messages struct {
	AppTitle            string
	MenuTitle           string
	MenuCreateTx        string
	MenuSign            string
	MenuSubmit          string
	MenuCreate          string
	MenuVerify          string
	MenuLookupAcct      string
	MenuLookupObj       string
	MenuEncrypt         string
	MenuDecrypt         string
	MenuPatterns        string
	MenuExit            string
	UnknownCommand      string
	ExitSelected        string
	ExitText            string
	Aborted             string
	PassphrasePrompt    string
	HintPrompt          string
	ConfigNotLoaded     string
	ConfigHeader        string
	ConfigRegexp        string
	ConfigCaseSensitive string
}

func Get(lang string) Messages {
	switch lang {
	case "ru":
		return Messages{
			AppTitle:            "LedgerTools - стартовое меню",
			MenuTitle:           "выбери действие",
			MenuCreateTx:        "1) Создать транзакцию",
			MenuSign:            "2) Подписать транзакцию",
			MenuSubmit:          "3) Отправить транзакцию",
			MenuCreate:          "4) Создать кошелёк",
			MenuVerify:          "5) Проверить кошелёк",
			MenuLookupAcct:      "6) Посмотреть аккаунт",
			MenuLookupObj:       "7) Посмотреть объект леджера",
			MenuEncrypt:         "8) Зашифровать сиды (inputs/encrypt/seeds.txt)",
			MenuDecrypt:         "9) Расшифровать сиды (inputs/decrypt/*.jsonl)",
			MenuPatterns:        "10) Показать загруженные patterns",
			MenuExit:            "0) Выход",
			UnknownCommand:      "Неизвестная команда:",
			ExitSelected:        "exit selected",
			ExitText:            "Выход",
			Aborted:             "Прервано",
			PassphrasePrompt:    "пароль",
			HintPrompt:          "подсказка к паролю (необязательно)",
			ConfigNotLoaded:     "Config не загружен",
			ConfigHeader:        "=== patterns config ===",
			ConfigRegexp:        "Regexp:",
			ConfigCaseSensitive: "Чувствительность к регистру: %v\n",
		}
	default: // "en"
		return Messages{
			AppTitle:            "LedgerTools - start menu",
			MenuTitle:           "choose action",
			MenuCreateTx:        "1) Create transaction",
			MenuSign:            "2) Sign transaction",
			MenuSubmit:          "3) Submit transaction",
			MenuCreate:          "4) Create wallet",
			MenuVerify:          "5) Verify wallet",
			MenuLookupAcct:      "6) Look up account",
			MenuLookupObj:       "7) Look up ledger object",
			MenuEncrypt:         "8) Encrypt seeds (inputs/encrypt/seeds.txt)",
			MenuDecrypt:         "9) Decrypt seeds (inputs/decrypt/*.jsonl)",
			MenuPatterns:        "10) Show loaded patterns",
			MenuExit:            "0) Exit",
			UnknownCommand:      "Unknown command:",
			ExitSelected:        "exit selected",
			ExitText:            "Exit",
			Aborted:             "Aborted",
			PassphrasePrompt:    "passphrase",
			HintPrompt:          "optional passphrase hint",
			ConfigNotLoaded:     "Config not loaded",
			ConfigHeader:        "=== patterns config ===",
			ConfigRegexp:        "Regexp:",
			ConfigCaseSensitive: "Case sensitive: %v\n",
		}
	}
}
