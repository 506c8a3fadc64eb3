/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@observerly/skysolve
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package main

/*****************************************************************************************************************/

import (
	"github.com/airsurvey/reduction/internal/cli"
)

/*****************************************************************************************************************/

func main() {
	cli.Execute()
}

/*****************************************************************************************************************/
