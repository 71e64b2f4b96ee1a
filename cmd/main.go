package main

// @title           controllerboard command server
// @version         1.0
// @description     Serves timed port plans to actuator boards and exposes their event log.
// @BasePath        /

func main() {
	Execute()
}
