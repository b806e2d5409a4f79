package storage

import (
	"errors"
	"fmt"
	"os"

	"botregistry/internal/models"
	"botregistry/pkg/utils"

	jsoniter "github.com/json-iterator/go"
)

// Ошибки адаптера персистенции.
// Разделяем сбои файловой системы и сбои кодирования: первые транзиентны,
// вторые означают дефект в коде.
var (
	ErrFileRead  = errors.New("failed to read state file")
	ErrFileWrite = errors.New("failed to write state file")
	ErrParse     = errors.New("failed to parse state file")
	ErrEncode    = errors.New("failed to encode state")
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Store - файловый адаптер персистенции реестра.
//
// Весь реестр сериализуется в один JSON-документ вида
// {"bots": {"<bot_id>": {...}}} и перезаписывается целиком при каждом
// сохранении. Адаптер ничего не знает про HTTP и CLI.
type Store struct {
	path string
	log  *utils.Logger
}

// NewStore создает Store для указанного файла состояния.
func NewStore(path string) *Store {
	return &Store{
		path: path,
		log:  utils.L().WithComponent("storage"),
	}
}

// Path возвращает путь к файлу состояния.
func (s *Store) Path() string {
	return s.path
}

// Load читает реестр из файла.
//
// Отсутствующий файл - это первый запуск: создаем пустой реестр и сразу
// записываем его. Существующий, но не парсящийся файл - фатальная ошибка:
// молчаливый откат к пустому реестру уничтожил бы данные вызывающего.
func (s *Store) Load() (*models.State, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			state := models.NewState()
			if saveErr := s.Save(state); saveErr != nil {
				return nil, saveErr
			}
			s.log.Info("state file not found, initialized empty registry", utils.StateFile(s.path))
			return state, nil
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrFileRead, s.path, err)
	}

	state := models.NewState()
	if err := json.Unmarshal(content, state); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, s.path, err)
	}
	if state.Bots == nil {
		state.Bots = make(map[string]*models.Bot)
	}
	// Пропущенный или null ключ "listeners" дает nil map, запись в нее паникует
	for _, bot := range state.Bots {
		if bot.Listeners == nil {
			bot.Listeners = make(map[string]models.Listener)
		}
	}

	s.log.Info("state loaded", utils.StateFile(s.path), utils.Int("bots", len(state.Bots)))
	return state, nil
}

// Save сериализует весь реестр и перезаписывает файл.
func (s *Store) Save(state *models.State) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrFileWrite, s.path, err)
	}

	s.log.Debug("state saved", utils.StateFile(s.path), utils.Int("bots", len(state.Bots)))
	return nil
}
