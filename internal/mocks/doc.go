// Package mocks provides test doubles shared by the service and API tests.
//
// The in-memory stores keep users and tasks in one Memory value so that the
// same foreign-key rule the schema enforces holds in tests: a user who still
// owns tasks cannot be deleted. MockTransactor snapshots that Memory before
// running a transaction function and restores it when the function fails,
// which lets tests observe rollback without a database.
//
// Usage:
//
//	mem := mocks.NewMemory()
//	users := mocks.NewMockUserStore(mem)
//	tasks := mocks.NewMockTaskStore(mem)
//	tx := mocks.NewMockTransactor(mem)
//
// Function fields such as MockJWTService.GenerateTokenFn override the default
// behaviour of a single method.
package mocks
