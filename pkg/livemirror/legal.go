package livemirror

// LegalNotice provides license notices for Livemirror itself and any
// third-party dependencies.
const LegalNotice = `Livemirror

Copyright (c) 2026 The Livemirror authors

Licensed under the terms of the MIT License. A copy of this license can be
found online at https://opensource.org/licenses/MIT.


================================================================================
Livemirror depends on the following third-party software:
================================================================================

Go, the Go standard library, and the Go sys subrepository.

https://golang.org/
https://github.com/golang/

Copyright (c) 2009 The Go Authors. All rights reserved.

Used under the terms of the 3-Clause BSD License (Google version).

--------------------------------------------------------------------------------

doublestar

https://github.com/bmatcuk/doublestar

Copyright (c) 2014 Bob Matcuk

Used under the terms of the MIT License.

--------------------------------------------------------------------------------

go-humanize

https://github.com/dustin/go-humanize

Copyright (c) 2005-2008 Dustin Sallings <dustin@spy.net>

Used under the terms of the MIT License.

--------------------------------------------------------------------------------

basex

https://github.com/eknkc/basex

Copyright (c) 2017 Ekin Koc

Used under the terms of the MIT License.

--------------------------------------------------------------------------------

color

https://github.com/fatih/color

Copyright (c) 2013 Fatih Arslan

Used under the terms of the MIT License.

--------------------------------------------------------------------------------

godotenv

https://github.com/joho/godotenv

Copyright (c) 2013 John Barton

Used under the terms of the MIT License.

--------------------------------------------------------------------------------

go-shellquote

https://github.com/kballard/go-shellquote

Copyright (c) 2014 Kevin Ballard

Used under the terms of the MIT License.

--------------------------------------------------------------------------------

go-isatty

https://github.com/mattn/go-isatty

Copyright (c) Yasuhiro MATSUMOTO <mattn.jp@gmail.com>

Used under the terms of the MIT License.

--------------------------------------------------------------------------------

errors

https://github.com/pkg/errors

Copyright (c) 2015, Dave Cheney <dave@cheney.net>
All rights reserved.

Used under the terms of the 2-Clause BSD License.

--------------------------------------------------------------------------------

Cobra

https://github.com/spf13/cobra

Copyright (c) 2013 Steve Francia <spf@spf13.com>

Used under the terms of the Apache License, Version 2.0.

--------------------------------------------------------------------------------

pflag

https://github.com/spf13/pflag

Copyright (c) 2012 Alex Ogier. All rights reserved.
Copyright (c) 2012 The Go Authors. All rights reserved.

Used under the terms of the 3-Clause BSD License.

--------------------------------------------------------------------------------

yaml

https://github.com/go-yaml/yaml

Copyright (c) 2006-2010 Kirill Simonov
Copyright (c) 2006-2011 Kirill Simonov
Copyright (c) 2011-2019 Canonical Ltd

Used under the terms of the Apache License, Version 2.0, with portions under
the MIT License.
`
