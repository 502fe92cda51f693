package app

//multibind:runtime example.com/app/rt
//multibind:exclude internal/skip
