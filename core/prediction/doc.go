// Package prediction defines the contract between the learned pricing policy
// and its consumers (HTTP handlers, scenario runner, CLI). The learning.Agent
// satisfies PredictionEngine once trained.
package prediction
