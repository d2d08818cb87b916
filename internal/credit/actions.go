package credit

import "fmt"

// Action описывает платную операцию с фиксированной целочисленной стоимостью.
// Стоимость задается при регистрации и никогда не приходит от пользователя.
type Action struct {
	Name string // Имя операции, совпадает с {action} в URL
	Cost int    // Стоимость в кредитах, строго положительная
}

// Реестр платных операций. Конфигурация, а не данные per-principal.
var actions = map[string]Action{
	"generate-post":            {Name: "generate-post", Cost: 10},
	"generate-comment":         {Name: "generate-comment", Cost: 5},
	"generate-template":        {Name: "generate-template", Cost: 5},
	"generate-profile-summary": {Name: "generate-profile-summary", Cost: 8},
}

// LookupAction возвращает зарегистрированную операцию по имени.
func LookupAction(name string) (Action, error) {
	action, ok := actions[name]
	if !ok {
		return Action{}, fmt.Errorf("%w: %s", ErrUnknownAction, name)
	}
	return action, nil
}

// Actions возвращает копию реестра, например для выдачи прайс-листа клиенту.
func Actions() []Action {
	result := make([]Action, 0, len(actions))
	for _, action := range actions {
		result = append(result, action)
	}
	return result
}
