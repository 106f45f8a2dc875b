package magmavk

import (
	"errors"
	"fmt"
	"log"
	"os"
	"runtime"

	vk "github.com/vulkan-go/vulkan"
)

// ErrInvalidHandle is returned by registry operations that were given a
// handle which is not (or no longer) registered. The registry state is
// unchanged when this error is returned.
var ErrInvalidHandle = errors.New("invalid handle")

func isError(ret vk.Result) bool {
	return ret != vk.Success
}

func newError(ret vk.Result) error {
	if ret != vk.Success {
		pc, _, _, ok := runtime.Caller(1)
		if !ok {
			return fmt.Errorf("vulkan error: %s (%d)",
				vk.Error(ret).Error(), ret)
		}
		fn := runtime.FuncForPC(pc)
		if fn == nil {
			return fmt.Errorf("vulkan error: %s (%d)",
				vk.Error(ret).Error(), ret)
		}
		file, line := fn.FileLine(pc)
		return fmt.Errorf("vulkan error: %s (%d) on %s:%d",
			vk.Error(ret).Error(), ret, file, line)
	}
	return nil
}

func orPanic(err error) {
	if err != nil {
		panic(err)
	}
}

func checkErr(err *error) {
	if v := recover(); v != nil {
		*err = fmt.Errorf("%+v", v)
	}
}

func Fatal(err error, finalizers ...func()) {
	if err != nil {
		for _, fn := range finalizers {
			fn()
		}

		file, ferr := os.OpenFile("fatal_log.txt", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
		if ferr != nil {
			log.Fatal(err)
		}
		fatal_log := log.New(file, "FATAL: ", log.Ldate|log.Ltime|log.Lshortfile)
		fatal_log.Fatal(err)
	}
}
