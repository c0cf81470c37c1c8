package types

// TargetTypeOperator is the auth type of admin API callers holding the configured API token
const TargetTypeOperator = "Operator"
