// Command gazectl controls the computer with eye gaze and blinks.
package main

func main() {
	Execute()
}
