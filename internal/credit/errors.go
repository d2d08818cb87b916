package credit

import "errors"

// Доменные ошибки кредитного учета. Обработчики сопоставляют их
// с HTTP-статусами через errors.Is.
var (
	// ErrInsufficientCredits — баланс меньше стоимости операции, списание не произошло.
	ErrInsufficientCredits = errors.New("insufficient credits")
	// ErrUnknownAction — операция с таким именем не зарегистрирована.
	ErrUnknownAction = errors.New("unknown paid action")
	// ErrGenerationFailed — внешний вызов генерации завершился ошибкой, списание возвращено.
	ErrGenerationFailed = errors.New("generation failed")
	// ErrGenerationTimeout — внешний вызов генерации не уложился в таймаут, списание возвращено.
	ErrGenerationTimeout = errors.New("generation timeout")
	// ErrRefundFailed — компенсирующий возврат не записался, требуется сверка вручную.
	ErrRefundFailed = errors.New("credit refund failed, reconciliation required")
	// ErrNotOrgMember — получатель начисления не является участником организации.
	ErrNotOrgMember = errors.New("principal is not a member of the organization")
)
