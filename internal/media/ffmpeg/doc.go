// Package ffmpeg builds and runs the external ffmpeg invocations the
// pipelines depend on: silence detection, stream-copy cuts, and lossless
// concatenation. Commands are executed through a Runner so a run can either
// invoke ffmpeg in process or record the equivalent shell commands to a
// script.
package ffmpeg
