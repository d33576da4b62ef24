// Package action dispatches form submissions to the handler named by the
// container's actionType property. StoreHandler, the default, persists each
// submission as a new resource beneath the container's action target.
package action
