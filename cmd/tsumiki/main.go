// Command tsumiki runs the desktop shell daemon and talks to it.
package main

func main() {
	Execute()
}
