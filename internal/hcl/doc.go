// Package hcl reads and writes conduit graphs in HCL.
//
// A graph file lists the task names and then describes the stack with
// blocks, in the order they would be pushed:
//
//	tasks = ["foo", "bar"]
//
//	sequence {
//	  parallel {
//	    sequence {
//	      task "foo" {
//	        label = "fx0"
//	        args  = { count = 0 }
//	      }
//	      task "foo" {
//	        label = "fx1"
//	        deps  = { prev = "fx0" }
//	      }
//	    }
//	    task "bar" {}
//	  }
//	  task "bar" { label = "last" }
//	}
//
// Loading drives the conduit builder: a task block invokes its task, and a
// sequence or parallel block pushes its children and then reduces them.
// Expressions may call a small set of functions such as upper, format and
// jsonencode. Arguments become JSON-shaped Go values (maps, slices, float64
// numbers, strings and bools), the same shape a parsed JSON graph carries.
package hcl
