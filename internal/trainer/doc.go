// Package trainer runs the adversarial training loop over an assembled
// session.
//
// Each batch updates the discriminator first and then the generator, each
// through its own optimizer. After every epoch both schedulers step, the
// validation source is scored, and the epoch log is published as Prometheus
// gauges. Checkpoints are JSON files in the run's model directory and can be
// resumed from.
package trainer
