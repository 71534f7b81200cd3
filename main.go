// daily-git prints the commits you authored on the previous working day.
package main

import (
	"github.com/naka-gawa/daily-git/cmd"
)

func main() {
	cmd.Execute()
}
