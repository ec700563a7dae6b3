// Package learning implements the tabular Q-learning core of the parking
// pricing agent: state encoding, reward shaping, the action-value table, the
// temporal-difference training pass and the prediction mapping served to
// displays.
//
// An Agent is built with NewAgent, seeded with Initialize, trained once with
// Train over a fixed historical batch, then queried with Predict. Training
// and prediction are synchronous and perform no I/O.
package learning
