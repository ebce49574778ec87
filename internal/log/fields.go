package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldClientIP  = "client_ip"
	FieldMethod    = "method"
	FieldURL       = "url"
	FieldUserAgent = "user_agent"
	FieldStatus    = "status"
	FieldDuration  = "duration_ms"
	FieldError     = "error"
	FieldOperation = "operation"

	FieldLancamentoID = "lancamento_id"
	FieldDescricao    = "descricao"
	FieldTipo         = "tipo"
	FieldValor        = "valor"
	FieldRecords      = "records"
)

// Components defines standard component names
const (
	ComponentApp               = "app"
	ComponentHTTP              = "http"
	ComponentRepository        = "repository"
	ComponentLancamentoHandler = "lancamento_handler"
	ComponentExportHandler     = "export_handler"
	ComponentBackupWorker      = "backup_worker"
)

// Operations defines standard operation names
const (
	OpLoad     = "load"
	OpCreate   = "create"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpMarkPaid = "mark_paid"
	OpExport   = "export"
	OpSnapshot = "snapshot"
)
