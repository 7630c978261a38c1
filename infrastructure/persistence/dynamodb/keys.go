package dynamodb

import "fmt"

// Single-table layout. Registry records and context entries share the table;
// the ProjectIndex GSI on GSI1PK serves project-scoped search without a scan.
const (
	userSK = "PROFILE"

	entityTypeUser    = "USER"
	entityTypeContext = "CONTEXT"
)

func userPK(identity string) string {
	return fmt.Sprintf("USER#%s", identity)
}

func contextSK(entryID string) string {
	return fmt.Sprintf("CONTEXT#%s", entryID)
}

func projectGSIPK(project string) string {
	return fmt.Sprintf("PROJECT#%s", project)
}
