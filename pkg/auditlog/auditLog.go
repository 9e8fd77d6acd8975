package auditlog

import (
	"log"

	"github.com/jeremynbs/LumiPro-Inventory/pkg/models"
)

type Auditlog struct {
	r Persister
}

// Persister stores finished log entries. *repository.Repository satisfies it.
type Persister interface {
	PersistLog(auditlog models.AuditLog, auditLogData interface{}) error
}

type Auditable interface {
	CreateLogView() models.AuditLog
}

// Log records an action against an auditable resource. Callers fire it from
// goroutines, so it must never panic out.
func (a *Auditlog) Log(action string, data interface{}, item Auditable) {
	defer func() {
		if r := recover(); r != nil {
			log.Println("Recovered while writing AuditLog entry: ", r)
		}
	}()

	auditLog := item.CreateLogView()
	auditLog.Action = action

	err := a.r.PersistLog(auditLog, data)

	if err != nil {
		log.Println("Unable to create AuditLog entry for id ", auditLog.ResourceID)
		return
	}
}

func NewAuditLog(repository Persister) *Auditlog {
	a := Auditlog{r: repository}

	return &a
}
