package redis

// Redis key naming conventions for formbridge data.
// All keys are prefixed with "formbridge:" to avoid collisions.

const keyPrefix = "formbridge:"

// ── Session keys ──

// sessionKey returns the key for a session entity: formbridge:session:{id}
func sessionKey(id string) string { return keyPrefix + "session:" + id }

// sessionIDsKey is the Set tracking all session IDs for enumeration.
const sessionIDsKey = keyPrefix + "session_ids"

// ── Workflow keys ──

// workflowKey returns the key for a workflow entity: formbridge:workflow:{id}
func workflowKey(id string) string { return keyPrefix + "workflow:" + id }

// historyKey returns the List key for a workflow's history:
// formbridge:history:{id}
func historyKey(id string) string { return keyPrefix + "history:" + id }

// workflowIDsKey is the Set tracking all workflow IDs for enumeration.
const workflowIDsKey = keyPrefix + "workflow_ids"
