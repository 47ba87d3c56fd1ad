// Package gaze defines the gaze sample types shared by the filter and the
// interaction pipelines, and the bounded queue that hands samples from the
// tracker driver thread to the frame thread.
//
// Samples are pushed by the tracker collaborator at device rate (typically
// 30-120 Hz) and drained once per frame. The queue is the only place where
// locking happens; everything downstream of Drain runs on the frame thread.
package gaze
