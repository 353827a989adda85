package types

const (
	ActionRabbitMQConnected       = "rabbitmq_connected"
	ActionRabbitConnectionClosed  = "rabbitmq_connection_closed"
	ActionRabbitConnectionClosing = "rabbitmq_connection_closing"
	ActionRabbitReconnected       = "rabbitmq_reconnection_success"

	ActionDatabaseTransactionFailed = "database_transaction_failed"
	ActionExternalServiceFailed     = "external_service_failed"

	ActionSignup         = "signup"
	ActionLogin          = "login"
	ActionProfile        = "profile"
	ActionCalculateFare  = "calculate_fare"
	ActionSaveFare       = "save_fare"
	ActionFareHistory    = "fare_history"
	ActionDeleteFare     = "delete_fare"
	ActionWeeklyAverage  = "weekly_average"
	ActionPublishEvent   = "publish_fare_event"
	ActionConsumeEvent   = "consume_fare_event"
	ActionDashboardWS    = "dashboard_ws"
	ActionSessionRestore = "session_restore"
	ActionDashboardLoad  = "dashboard_load"
	ActionMigrate        = "migrate"
)
